//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package adapter defines the contract between the AG-UI server and an agent
// implementation.
package adapter

import (
	"context"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// Agent produces the events of a run. Run returns an error only when the run
// cannot start; failures after that are delivered on the stream. The agent
// should watch ctx and end the stream when it is cancelled.
type Agent interface {
	// Name identifies the agent in health reports and telemetry.
	Name() string
	// Run starts one run.
	Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error)
}

// Initializer is implemented by agents that need setup before serving.
type Initializer interface {
	Init(ctx context.Context) error
}

// Shutdowner is implemented by agents that hold resources.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// HealthChecker is implemented by agents that report their own health.
type HealthChecker interface {
	Health(ctx context.Context) Health
}

// HealthStatus is the coarse health of an agent.
type HealthStatus string

// Health statuses.
const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Health is the body of the health endpoint.
type Health struct {
	Status  HealthStatus `json:"status"`
	Agent   string       `json:"agent"`
	Details string       `json:"details,omitempty"`
}

// RunFunc is the run operation of an agent.
type RunFunc func(ctx context.Context, input *model.RunAgentInput) (event.Stream, error)

// NewAgent returns an Agent named name that runs f.
func NewAgent(name string, f RunFunc) Agent {
	return &funcAgent{name: name, run: f}
}

type funcAgent struct {
	name string
	run  RunFunc
}

func (a *funcAgent) Name() string { return a.name }

func (a *funcAgent) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	return a.run(ctx, input)
}
