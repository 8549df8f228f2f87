//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package runner drives a server side agent and turns every failure into a
// RUN_ERROR event at the end of the stream.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

const side = "server"

// ErrTooManyRuns is returned when the concurrent run limit is reached.
var ErrTooManyRuns = errors.New("agui: too many concurrent runs")

// Runner executes AG-UI runs and emits AG-UI events.
type Runner interface {
	// Run starts processing one AG-UI run request and returns its events.
	// The stream never carries errors; they arrive as a final RUN_ERROR.
	Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error)
	// Close releases the run pool.
	Close() error
}

// New wraps agent with transformation, verification and error conversion.
func New(agent adapter.Agent, opt ...Option) (Runner, error) {
	if agent == nil {
		return nil, errors.New("agui: agent must not be nil")
	}
	opts := NewOptions(opt...)
	r := &runner{agent: agent, opts: opts}
	if opts.MaxConcurrentRuns > 0 {
		pool, err := ants.NewPool(opts.MaxConcurrentRuns, ants.WithNonblocking(true))
		if err != nil {
			return nil, fmt.Errorf("agui: create run pool: %w", err)
		}
		r.pool = pool
	}
	return r, nil
}

// runner is the default implementation of the Runner.
type runner struct {
	agent adapter.Agent
	opts  *Options
	pool  *ants.Pool
}

// Run starts processing one AG-UI run request.
func (r *runner) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	if input == nil {
		return nil, errors.New("agui: run input cannot be nil")
	}
	out := make(chan event.StreamItem)
	started := make(chan error, 1)
	task := func() {
		stream, err := r.agent.Run(ctx, input)
		if err != nil {
			started <- err
			close(out)
			return
		}
		started <- nil
		r.forward(ctx, input, r.pipeline(ctx, stream), out)
	}
	if err := r.submit(task); err != nil {
		return nil, err
	}
	select {
	case err := <-started:
		if err != nil {
			return nil, err
		}
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *runner) submit(task func()) error {
	if r.pool == nil {
		go task()
		return nil
	}
	if err := r.pool.Submit(task); err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return ErrTooManyRuns
		}
		return fmt.Errorf("agui: submit run: %w", err)
	}
	return nil
}

func (r *runner) pipeline(ctx context.Context, stream event.Stream) event.Stream {
	stream = middleware.Apply(ctx, stream, r.opts.Transformers...)
	if r.opts.Verify {
		stream = verify.Stream(ctx, stream)
	}
	return stream
}

// forward copies events to out until the stream ends, replacing an error
// with a RUN_ERROR event.
func (r *runner) forward(ctx context.Context, input *model.RunAgentInput, in event.Stream, out chan<- event.StreamItem) {
	defer close(out)
	instruments := metric.Instruments()
	for {
		select {
		case <-ctx.Done():
			log.Debugf("agui: run %s: %s", input.RunID, adapter.MessageClientDisconnect)
			instruments.RunFailed(ctx, side, string(adapter.CodeAborted))
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			if item.Err != nil {
				runErr := adapter.RunError(item.Err)
				log.Warnf("agui: run %s failed (%s): %v", input.RunID, runErr.Code, item.Err)
				instruments.RunFailed(ctx, side, runErr.Code)
				event.Send(ctx, out, event.StreamItem{Event: runErr})
				return
			}
			instruments.EventProcessed(ctx, side, item.Event.Type().String())
			if !event.Send(ctx, out, item) {
				return
			}
		}
	}
}

// Close releases the run pool.
func (r *runner) Close() error {
	if r.pool != nil {
		r.pool.Release()
	}
	return nil
}
