//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"trpc.group/trpc-go/trpc-agui-go/model"
)

func TestTraceRunInput(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), SpanNameRun)
	TraceRunInput(span, &model.RunAgentInput{
		ThreadID: model.ThreadIDFrom("t1"),
		RunID:    model.RunIDFrom("r1"),
		Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), "hi")},
	})
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "t1", attrs[KeyThreadID].AsString())
	assert.Equal(t, "r1", attrs[KeyRunID].AsString())
	assert.Equal(t, int64(1), attrs[KeyMessages].AsInt64())
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	inst, err := NewInstruments(mp.Meter(InstrumentName))
	require.NoError(t, err)

	ctx := context.Background()
	inst.RunStarted(ctx, "client")
	inst.EventProcessed(ctx, "client", "RUN_STARTED")
	inst.EventProcessed(ctx, "client", "RUN_FINISHED")
	inst.RunFailed(ctx, "client", "INTERNAL_ERROR")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{MetricRuns: 1, MetricEvents: 2, MetricRunErrors: 1}, totals)

	var nilInst *Instruments
	assert.NotPanics(t, func() { nilInst.RunStarted(ctx, "server") })
}

func TestNewGRPCConn(t *testing.T) {
	conn, err := NewGRPCConn("localhost:4317")
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}
