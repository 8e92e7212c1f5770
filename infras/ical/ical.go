// Package ical fetches OTA calendar feeds and renders per-room calendars.
package ical

//go:generate go run go.uber.org/mock/mockgen -source=./ical.go -destination=./mocks/ical_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"
	"innkeep/shared/daterange"
	"innkeep/shared/timezone"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	otelScopeName   = "ical"
	otelAttrFeedURL = "feed.url"

	parameterValue = "VALUE"
	valueTypeDate  = "DATE"
	basicDate      = "20060102"
	maxFeedBytes   = 5 << 20
)

var (
	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("invalid calendar")
)

// Event is a VEVENT reduced to calendar dates. End is exclusive.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
	AllDay  bool
}

type Client interface {
	Fetch(ctx context.Context, url string) (events []Event, err error)
}

type clientImpl struct {
	http      *http.Client
	userAgent string
	otel      otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	return &clientImpl{
		http: &http.Client{
			Timeout:   time.Duration(cfg.Sync.FetchTimeoutSeconds) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: cfg.Sync.UserAgent,
		otel:      otl,
	}
}

func (c *clientImpl) Fetch(ctx context.Context, url string) (events []Event, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, otelScopeName+".Fetch")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelAttrFeedURL, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if c.userAgent != "" {
		req.Header.Set(constant.RequestHeaderUserAgent, c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("failed to fetch calendar feed")

		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("calendar feed returned non-success status")

		return nil, fmt.Errorf("%w: %s", ErrFetch, resp.Status)
	}

	return Parse(io.LimitReader(resp.Body, maxFeedBytes), timezone.Location())
}

// Parse reads every VEVENT of an iCalendar document. Date-only values are taken as calendar dates;
// date-time values are moved into loc before the clock is dropped. A missing DTEND means a one-night stay.
// Any unreadable date rejects the whole document.
func Parse(r io.Reader, loc *time.Location) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	vevents := cal.Events()
	events := make([]Event, 0, len(vevents))

	for _, vevent := range vevents {
		event := Event{UID: strings.TrimSpace(vevent.Id())}

		if summary := vevent.GetProperty(ics.ComponentPropertySummary); summary != nil {
			event.Summary = strings.TrimSpace(summary.Value)
		}

		start, allDay, err := eventDate(vevent, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: event %q start: %w", ErrParse, event.UID, err)
		}

		event.Start = start
		event.AllDay = allDay

		if vevent.GetProperty(ics.ComponentPropertyDtEnd) == nil {
			event.End = start.AddDate(0, 0, 1)
		} else {
			event.End, _, err = eventDate(vevent, ics.ComponentPropertyDtEnd, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: event %q end: %w", ErrParse, event.UID, err)
			}
		}

		events = append(events, event)
	}

	return events, nil
}

func eventDate(vevent *ics.VEvent, property ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	prop := vevent.GetProperty(property)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing %s", property)
	}

	value := strings.TrimSpace(prop.Value)
	if isDateOnly(prop.ICalParameters, value) {
		date, err := time.Parse(basicDate, value)
		if err != nil {
			return time.Time{}, true, fmt.Errorf("unreadable date %q", value)
		}

		return date, true, nil
	}

	var (
		at  time.Time
		err error
	)

	if property == ics.ComponentPropertyDtEnd {
		at, err = vevent.GetEndAt()
	} else {
		at, err = vevent.GetStartAt()
	}

	if err != nil {
		return time.Time{}, false, fmt.Errorf("unreadable date-time %q: %w", value, err)
	}

	return daterange.DateOf(at.In(loc)), false, nil
}

func isDateOnly(params map[string][]string, value string) bool {
	for _, v := range params[parameterValue] {
		if strings.EqualFold(v, valueTypeDate) {
			return true
		}
	}

	return len(value) == len(basicDate)
}
