package otel_test

import (
	"context"
	"errors"
	"testing"

	"innkeep/infras/otel"
	"innkeep/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestTraceError(t *testing.T) {
	t.Run("server failure marks the span", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) {
			scope.TraceError(errors.New("connection refused"))
		})

		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "connection refused", span.Status().Description)
	})

	t.Run("client failure is only an event", func(t *testing.T) {
		span := record(t, func(scope otel.Scope) {
			scope.TraceError(failure.Conflict("task already claimed"))
		})

		assert.Equal(t, codes.Unset, span.Status().Code)
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "request.rejected", span.Events()[0].Name)
	})
}

func TestTraceIfError_SeesFinalValue(t *testing.T) {
	run := func(scope otel.Scope) (err error) {
		defer scope.TraceIfError(&err)

		err = errors.New("late failure")

		return err
	}

	span := record(t, func(scope otel.Scope) {
		_ = run(scope)
	})

	assert.Equal(t, codes.Error, span.Status().Code)
}

func TestTraceIfError_Nil(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		var err error
		scope.TraceIfError(&err)
		scope.TraceIfError(nil)
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Empty(t, span.Events())
}
