//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the span names, attribute keys and instruments
// shared by the client and server packages.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"trpc.group/trpc-go/trpc-agui-go/model"
)

// telemetry service constants.
const (
	ServiceName      = "agui"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-agui-go"
	InstrumentName   = "trpc.agui.go"

	SpanNameRun   = "agui.run"
	SpanNameServe = "agui.serve"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// telemetry attribute keys.
const (
	KeyThreadID    = "agui.thread_id"
	KeyRunID       = "agui.run_id"
	KeyAgent       = "agui.agent"
	KeyEventType   = "agui.event_type"
	KeyErrorCode   = "agui.error_code"
	KeyContentType = "agui.content_type"
	KeyMessages    = "agui.messages"
)

// metric names.
const (
	MetricRuns      = "agui.runs"
	MetricEvents    = "agui.events"
	MetricRunErrors = "agui.run.errors"
)

// TraceRunInput annotates a run span with the request identifiers.
func TraceRunInput(span trace.Span, input *model.RunAgentInput) {
	span.SetAttributes(
		attribute.String(KeyThreadID, input.ThreadID.String()),
		attribute.String(KeyRunID, input.RunID.String()),
		attribute.Int(KeyMessages, len(input.Messages)),
	)
}

// Instruments are the counters recorded for runs.
type Instruments struct {
	Runs      metric.Int64Counter
	Events    metric.Int64Counter
	RunErrors metric.Int64Counter
}

// NewInstruments creates the run counters on m.
func NewInstruments(m metric.Meter) (*Instruments, error) {
	runs, err := m.Int64Counter(MetricRuns, metric.WithDescription("AG-UI runs started"))
	if err != nil {
		return nil, fmt.Errorf("create %s counter: %w", MetricRuns, err)
	}
	events, err := m.Int64Counter(MetricEvents, metric.WithDescription("AG-UI events processed"))
	if err != nil {
		return nil, fmt.Errorf("create %s counter: %w", MetricEvents, err)
	}
	runErrors, err := m.Int64Counter(MetricRunErrors, metric.WithDescription("AG-UI runs ended with an error"))
	if err != nil {
		return nil, fmt.Errorf("create %s counter: %w", MetricRunErrors, err)
	}
	return &Instruments{Runs: runs, Events: events, RunErrors: runErrors}, nil
}

// RunStarted counts a run.
func (i *Instruments) RunStarted(ctx context.Context, side string) {
	if i == nil {
		return
	}
	i.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("side", side)))
}

// EventProcessed counts an event of type t.
func (i *Instruments) EventProcessed(ctx context.Context, side, t string) {
	if i == nil {
		return
	}
	i.Events.Add(ctx, 1, metric.WithAttributes(attribute.String("side", side), attribute.String(KeyEventType, t)))
}

// RunFailed counts a failed run.
func (i *Instruments) RunFailed(ctx context.Context, side, code string) {
	if i == nil {
		return
	}
	i.RunErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("side", side), attribute.String(KeyErrorCode, code)))
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		// TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
