package otel_test

import (
	"context"
	"errors"
	"testing"

	"vrent/config"
	"vrent/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_TraceIfError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))

	_, scope := tracer.NewScope(context.Background(), "service", "service.Activate")
	scope.SetAttributes(map[string]any{"rental.id": "r-1", "rental.days": 3, "rental.total": 300.5})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("invalid transition"))
	assert.NotEmpty(t, scope.TraceID())
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.Activate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Attributes(), 3)

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNew_WithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "vrent"

	tracer := otel.New(cfg)

	ctx, scope := tracer.NewScope(context.Background(), "handler", "handler.Health")
	assert.NotNil(t, ctx)
	scope.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}
