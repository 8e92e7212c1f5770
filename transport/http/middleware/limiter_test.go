package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/shared"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limited(t *testing.T, enable bool) (*cacheMocks.MockRedisCache, http.Handler) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return cache, app.RateLimit()(ok)
}

func request() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/availability", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "kiosk")

	return req
}

func TestRateLimit(t *testing.T) {
	key := shared.BuildCacheKey("limiter", "203.0.113.7", "kiosk")

	tests := []struct {
		name          string
		count         int64
		err           error
		wantCode      int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantCode: http.StatusOK, wantRemaining: "1"},
		{name: "last allowed request", count: 2, wantCode: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", count: 3, wantCode: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "cache down fails open", err: errors.New("redis: connection refused"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, handler := limited(t, true)
			cache.EXPECT().Increment(gomock.Any(), key, 60).Return(tt.count, tt.err)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, request())

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))

			if tt.wantCode == http.StatusTooManyRequests {
				assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	_, handler := limited(t, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
