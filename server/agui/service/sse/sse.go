//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package sse provides SSE service implementation.
package sse

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	itelemetry "trpc.group/trpc-go/trpc-agui-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/service"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/trace"
)

// sse is a SSE service implementation.
type sse struct {
	path     string
	protobuf bool
	runner   runner.Runner
	handler  http.Handler
}

// New creates a new SSE service.
func New(runner runner.Runner, opt ...service.Option) service.Service {
	opts := service.NewOptions(opt...)
	s := &sse{
		path:     opts.Path,
		protobuf: opts.Protobuf,
		runner:   runner,
	}
	h := mux.NewRouter()
	h.HandleFunc(s.path, s.handle).Methods(http.MethodPost)
	s.handler = h
	return s
}

// Handler returns an http.Handler that exposes the AG-UI SSE endpoint.
func (s *sse) Handler() http.Handler {
	return s.handler
}

// handle handles an AG-UI run request.
func (s *sse) handle(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.Tracer.Start(r.Context(), itelemetry.SpanNameServe)
	defer span.End()

	if s.runner == nil {
		http.Error(w, "runner not configured", http.StatusInternalServerError)
		return
	}
	input, err := runAgentInputFromReader(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	enc := encoding.Negotiate(r.Header.Get("Accept"), encoding.WithProtobuf(s.protobuf))
	itelemetry.TraceRunInput(span, input)
	span.SetAttributes(attribute.String(itelemetry.KeyContentType, enc.ContentType()))
	metric.Instruments().RunStarted(ctx, "server")

	ctx = adapter.WithRequestInfo(ctx, &adapter.RequestInfo{
		Headers:    r.Header.Clone(),
		RemoteAddr: r.RemoteAddr,
		RequestID:  requestID(r),
		TraceID:    trace.TraceID(ctx),
	})
	stream, err := s.runner.Run(ctx, input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, runner.ErrTooManyRuns) {
			status = http.StatusServiceUnavailable
		}
		log.Warnf("agui: run %s not started: %v", input.RunID, err)
		http.Error(w, err.Error(), status)
		return
	}
	log.Debugf("agui: run %s streaming %s to %s", input.RunID, enc.ContentType(), r.RemoteAddr)

	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for item := range stream {
		e := item.Event
		if item.Err != nil {
			e = adapter.RunError(item.Err)
		}
		b, err := enc.Encode(e)
		if err != nil {
			log.Warnf("agui: run %s: encode %s: %v", input.RunID, e.Type(), err)
			b, err = enc.Encode(adapter.RunError(err))
			if err != nil {
				return
			}
			_, _ = w.Write(b)
			flusher.Flush()
			return
		}
		if _, err := w.Write(b); err != nil {
			log.Debugf("agui: run %s: %s: %v", input.RunID, adapter.MessageClientDisconnect, err)
			return
		}
		flusher.Flush()
		if item.Err != nil {
			return
		}
	}
	log.Debugf("agui: run %s finished", input.RunID)
}

func requestID(r *http.Request) string {
	if id := r.Header.Get(adapter.HeaderRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}

// runAgentInputFromReader parses an AG-UI run request payload from a reader.
func runAgentInputFromReader(r io.Reader) (*model.RunAgentInput, error) {
	var input model.RunAgentInput
	dec := json.NewDecoder(r)
	if err := dec.Decode(&input); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return &input, nil
}
