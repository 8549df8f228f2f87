//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package toolfilter drops tool call events for tools outside an allow list
// or inside a block list.
package toolfilter

import (
	"context"
	"errors"
	"sync"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// ErrBothLists is returned when both an allow list and a block list are set.
var ErrBothLists = errors.New("toolfilter: allow list and block list are mutually exclusive")

type options struct {
	allowed map[string]struct{}
	blocked map[string]struct{}
}

// Option configures a Filter.
type Option func(*options)

// WithAllowed forwards only tool calls whose name is in names.
func WithAllowed(names ...string) Option {
	return func(o *options) {
		o.allowed = toSet(names)
	}
}

// WithBlocked drops tool calls whose name is in names.
func WithBlocked(names ...string) Option {
	return func(o *options) {
		o.blocked = toSet(names)
	}
}

func toSet(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Filter is a middleware.Transformer. It is safe for concurrent use; each
// transformed stream tracks its own blocked tool call ids.
type Filter struct {
	allowed map[string]struct{}
	blocked map[string]struct{}
}

var _ middleware.Transformer = (*Filter)(nil)

// New creates a Filter. Without options every tool call passes.
func New(opts ...Option) (*Filter, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allowed != nil && o.blocked != nil {
		return nil, ErrBothLists
	}
	return &Filter{allowed: o.allowed, blocked: o.blocked}, nil
}

// Filtered reports whether calls to the named tool are dropped.
func (f *Filter) Filtered(name string) bool {
	if f.allowed != nil {
		_, ok := f.allowed[name]
		return !ok
	}
	_, ok := f.blocked[name]
	return ok
}

// Transform implements middleware.Transformer.
func (f *Filter) Transform(ctx context.Context, in event.Stream) event.Stream {
	s := &session{filter: f, blocked: make(map[model.ToolCallID]struct{})}
	return middleware.Pipe(ctx, in, func(e event.Event, emit func(event.Event) bool) error {
		if s.keep(e) {
			emit(e)
		}
		return nil
	}, nil)
}

type session struct {
	filter  *Filter
	mu      sync.Mutex
	blocked map[model.ToolCallID]struct{}
}

func (s *session) keep(e event.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := e.(type) {
	case *event.ToolCallStartEvent:
		if s.filter.Filtered(e.ToolCallName) {
			log.Debugf("toolfilter: dropping tool call %s (%s)", e.ToolCallID, e.ToolCallName)
			s.blocked[e.ToolCallID] = struct{}{}
			return false
		}
	case *event.ToolCallArgsEvent:
		return !s.isBlocked(e.ToolCallID)
	case *event.ToolCallEndEvent:
		return !s.isBlocked(e.ToolCallID)
	case *event.ToolCallChunkEvent:
		return e.ToolCallID == "" || !s.isBlocked(e.ToolCallID)
	case *event.ToolCallResultEvent:
		if s.isBlocked(e.ToolCallID) {
			delete(s.blocked, e.ToolCallID)
			return false
		}
	}
	return true
}

func (s *session) isBlocked(id model.ToolCallID) bool {
	_, ok := s.blocked[id]
	return ok
}
