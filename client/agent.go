//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package client runs AG-UI agents from the consumer side. A Runner sends a
// run request through an Agent transport, passes the event stream through
// middleware and the protocol verifier, and folds every event into the
// conversation messages and a typed state while notifying subscribers.
package client

import (
	"context"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// Agent starts a run and returns its event stream. Implementations close the
// stream when the run ends and deliver transport failures as stream items.
type Agent interface {
	Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error)
}

// AgentFunc adapts a function to Agent.
type AgentFunc func(ctx context.Context, input *model.RunAgentInput) (event.Stream, error)

// Run implements Agent.
func (f AgentFunc) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	return f(ctx, input)
}
