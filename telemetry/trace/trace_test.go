//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	itelemetry "trpc.group/trpc-go/trpc-agui-go/internal/telemetry"
)

func TestTracesEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom-trace:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic:4317")
	assert.Equal(t, "custom-trace:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	assert.Equal(t, "generic:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", tracesEndpoint(itelemetry.ProtocolGRPC))
	assert.Equal(t, "localhost:4318", tracesEndpoint(itelemetry.ProtocolHTTP))
}

func TestParseEndpointURL(t *testing.T) {
	ep, p, err := parseEndpointURL("collector:3000/api/otel")
	require.NoError(t, err)
	assert.Equal(t, "collector:3000", ep)
	assert.Equal(t, "/api/otel", p)

	ep, p, err = parseEndpointURL("https://collector")
	require.NoError(t, err)
	assert.Equal(t, "collector", ep)
	assert.Equal(t, "/", p)

	_, _, err = parseEndpointURL("http://")
	assert.Error(t, err)
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))

	recorder := tracetest.NewSpanRecorder()
	SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	ctx, span := Tracer.Start(context.Background(), "x")
	defer span.End()
	assert.Len(t, TraceID(ctx), 32)
}

func TestStartAndClean(t *testing.T) {
	for _, protocol := range []string{itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP} {
		clean, err := Start(context.Background(), WithEndpoint("localhost:4317"), WithProtocol(protocol),
			WithServiceName("agui-test"))
		require.NoError(t, err)
		require.NotNil(t, clean)
		_ = clean()
	}
}
