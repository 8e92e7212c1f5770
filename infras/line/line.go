// Package line pushes plain-text operator messages through the LINE Messaging API.
package line

//go:generate go run go.uber.org/mock/mockgen -source=./line.go -destination=./mocks/line_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	otelScopeName = "line"
)

var ErrNotConfigured = errors.New("line notification is not configured")

type Notifier interface {
	Push(ctx context.Context, message string) (err error)
}

type notifierImpl struct {
	api    *messaging_api.MessagingApiAPI
	userID string
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Notifier {
	lineCfg := cfg.Notification.Line
	notifier := &notifierImpl{userID: lineCfg.UserID, otel: otl}

	if lineCfg.ChannelAccessToken == "" || lineCfg.UserID == "" {
		log.Warn().
			Bool("token", lineCfg.ChannelAccessToken != "").
			Bool("userId", lineCfg.UserID != "").
			Msg("LINE settings missing, operator notifications disabled")

		return notifier
	}

	options := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
	}

	if lineCfg.APIEndpoint != "" {
		options = append(options, messaging_api.WithEndpoint(lineCfg.APIEndpoint))
	}

	api, err := messaging_api.NewMessagingApiAPI(lineCfg.ChannelAccessToken, options...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create LINE messaging client, operator notifications disabled")

		return notifier
	}

	notifier.api = api

	log.Info().Msg("LINE messaging client initialized")

	return notifier
}

// Push sends message to the configured operator. Without credentials it logs and returns ErrNotConfigured.
func (n *notifierImpl) Push(ctx context.Context, message string) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelExternalScopeName, otelScopeName+".Push")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if n.api == nil {
		log.Warn().Msg("LINE notification skipped")

		return ErrNotConfigured
	}

	_, err = n.api.WithContext(ctx).PushMessage(&messaging_api.PushMessageRequest{
		To: n.userID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: message},
		},
	}, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to push LINE message")

		return fmt.Errorf("failed to push LINE message: %w", err)
	}

	return nil
}
