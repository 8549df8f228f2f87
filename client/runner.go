//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package client

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	itelemetry "trpc.group/trpc-go/trpc-agui-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-agui-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

const side = "client"

// RunParams are the inputs of a single run.
type RunParams[S any] struct {
	// RunID identifies the run. A fresh id is generated when nil.
	RunID          *model.RunID
	Messages       []model.Message
	State          S
	Tools          []model.Tool
	Context        []model.Context
	ForwardedProps any
}

// RunResult is the outcome of a run whose stream ended without error.
type RunResult[S any] struct {
	// Result is the payload of the last RUN_FINISHED event.
	Result any
	// NewMessages are the final messages whose ids were not in
	// RunParams.Messages, in conversation order.
	NewMessages []model.Message
	// Messages is the full conversation after the run.
	Messages []model.Message
	NewState S
	// RunError is the RUN_ERROR event reported by the agent, if any.
	RunError *event.RunErrorEvent
}

// Runner executes runs against an Agent. A Runner holds no per-run state
// and may be used from several goroutines.
type Runner[S any] struct {
	agent Agent
	opts  options
}

// NewRunner creates a Runner for agent.
func NewRunner[S any](agent Agent, opts ...Option) (*Runner[S], error) {
	if agent == nil {
		return nil, NewError(KindConfig, "agent is required", nil)
	}
	return &Runner[S]{agent: agent, opts: newOptions(opts...)}, nil
}

// Run performs one run. Events are folded into a copy of params.Messages
// and params.State; the caller's values are never modified. On failure
// every subscriber's OnRunFailed hook runs before the error is returned.
func (r *Runner[S]) Run(
	ctx context.Context,
	params RunParams[S],
	subscribers ...Subscriber[S],
) (*RunResult[S], error) {
	input := r.newInput(params)
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameRun)
	defer span.End()
	itelemetry.TraceRunInput(span, input)
	instruments := metric.Instruments()
	instruments.RunStarted(ctx, side)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rs := newRun(input, params, subscribers)
	res, err := rs.execute(ctx, r.agent, r.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		instruments.RunFailed(ctx, side, KindOf(err).String())
		log.Debugf("client: run %s failed: %v", input.RunID, err)
		return nil, err
	}
	if res.RunError != nil {
		span.SetAttributes(attribute.String(itelemetry.KeyErrorCode, res.RunError.Code))
		span.SetStatus(codes.Error, res.RunError.Message)
		instruments.RunFailed(ctx, side, res.RunError.Code)
	}
	return res, nil
}

func (r *Runner[S]) newInput(params RunParams[S]) *model.RunAgentInput {
	threadID := r.opts.threadID
	if threadID.IsZero() {
		threadID = model.NewThreadID()
	}
	runID := model.NewRunID()
	if params.RunID != nil && !params.RunID.IsZero() {
		runID = *params.RunID
	}
	return &model.RunAgentInput{
		ThreadID:       threadID,
		RunID:          runID,
		State:          params.State,
		Messages:       model.CloneMessages(params.Messages),
		Tools:          params.Tools,
		Context:        params.Context,
		ForwardedProps: params.ForwardedProps,
	}
}

// run is the state of one Run call. It is owned by a single goroutine.
type run[S any] struct {
	input    *model.RunAgentInput
	subs     []Subscriber[S]
	messages []model.Message
	state    S
	initial  map[model.MessageID]struct{}
	result   any
	runError *event.RunErrorEvent
}

func newRun[S any](input *model.RunAgentInput, params RunParams[S], subs []Subscriber[S]) *run[S] {
	return &run[S]{
		input:    input,
		subs:     subs,
		messages: model.CloneMessages(params.Messages),
		state:    params.State,
		initial:  messageIDs(params.Messages),
	}
}

func (r *run[S]) execute(ctx context.Context, agent Agent, o options) (*RunResult[S], error) {
	if err := r.initialize(ctx); err != nil {
		return nil, r.fail(ctx, err)
	}
	stream, err := agent.Run(ctx, r.input)
	if err != nil {
		return nil, r.fail(ctx, wrap(err, KindTransport, "start run"))
	}
	stream = middleware.Apply(ctx, stream, o.transformers...)
	if o.verify {
		stream = verify.Stream(ctx, stream)
	}
	instruments := metric.Instruments()
	for {
		select {
		case <-ctx.Done():
			return nil, r.fail(ctx, wrap(ctx.Err(), KindTransport, "run cancelled"))
		case item, ok := <-stream:
			if !ok {
				// Pipeline stages close their output on cancellation.
				if err := ctx.Err(); err != nil {
					return nil, r.fail(ctx, wrap(err, KindTransport, "run cancelled"))
				}
				return r.finalize(ctx)
			}
			if item.Err != nil {
				return nil, r.fail(ctx, wrap(item.Err, KindTransport, "receive event"))
			}
			instruments.EventProcessed(ctx, side, item.Event.Type().String())
			if err := r.handle(ctx, item.Event); err != nil {
				return nil, r.fail(ctx, err)
			}
		}
	}
}

// initialize runs OnRunInitialized and sends the resulting messages and
// state to the agent.
func (r *run[S]) initialize(ctx context.Context) error {
	var pending Mutation[S]
	for _, s := range r.subs {
		m, err := s.OnRunInitialized(ctx, r.view(pending))
		if err != nil {
			return wrap(err, KindExecution, "run initialized hook")
		}
		pending = merge(pending, m)
		if m.StopPropagation {
			break
		}
	}
	if err := r.apply(ctx, pending); err != nil {
		return err
	}
	r.input.Messages = model.CloneMessages(r.messages)
	r.input.State = r.state
	return nil
}

// handle processes one event: OnEvent for every subscriber, then the
// default mutation, then the variant hook, then the apply phase.
func (r *run[S]) handle(ctx context.Context, e event.Event) error {
	var pending Mutation[S]
	for _, s := range r.subs {
		m, err := s.OnEvent(ctx, e, r.view(pending))
		if err != nil {
			return hookError(e, err)
		}
		pending = merge(pending, m)
		if m.StopPropagation {
			return r.commit(ctx, e, pending)
		}
	}
	def, info, err := fold(e, r.view(pending))
	if err != nil {
		return err
	}
	pending = merge(pending, def)
	for _, s := range r.subs {
		m, err := dispatch(ctx, s, e, info, r.view(pending))
		if err != nil {
			return hookError(e, err)
		}
		pending = merge(pending, m)
		if m.StopPropagation {
			break
		}
	}
	return r.commit(ctx, e, pending)
}

func (r *run[S]) commit(ctx context.Context, e event.Event, m Mutation[S]) error {
	if err := r.apply(ctx, m); err != nil {
		return err
	}
	switch e := e.(type) {
	case *event.RunFinishedEvent:
		r.result = e.Result
		p := r.params()
		for _, s := range r.subs {
			if err := s.OnRunFinished(ctx, e.Result, p); err != nil {
				return wrap(err, KindExecution, "run finished hook")
			}
		}
	case *event.RunErrorEvent:
		r.runError = e
	}
	return nil
}

// apply installs m and notifies subscribers: new messages, their tool
// calls, the message list, then the state.
func (r *run[S]) apply(ctx context.Context, m Mutation[S]) error {
	if m.Messages != nil {
		known := messageIDs(r.messages)
		r.messages = m.Messages
		p := r.params()
		for _, msg := range r.messages {
			if _, ok := known[msg.ID]; ok {
				continue
			}
			for _, s := range r.subs {
				if err := s.OnNewMessage(ctx, msg, p); err != nil {
					return wrap(err, KindExecution, "new message hook")
				}
			}
			if msg.Role != model.RoleAssistant {
				continue
			}
			for _, tc := range msg.ToolCalls {
				for _, s := range r.subs {
					if err := s.OnNewToolCall(ctx, tc, p); err != nil {
						return wrap(err, KindExecution, "new tool call hook")
					}
				}
			}
		}
		for _, s := range r.subs {
			if err := s.OnMessagesChanged(ctx, p); err != nil {
				return wrap(err, KindExecution, "messages changed hook")
			}
		}
	}
	if m.State != nil {
		r.state = *m.State
		p := r.params()
		for _, s := range r.subs {
			if err := s.OnStateChanged(ctx, p); err != nil {
				return wrap(err, KindExecution, "state changed hook")
			}
		}
	}
	return nil
}

func (r *run[S]) finalize(ctx context.Context) (*RunResult[S], error) {
	p := r.params()
	for _, s := range r.subs {
		if err := s.OnRunFinalized(ctx, p); err != nil {
			return nil, wrap(err, KindExecution, "run finalized hook")
		}
	}
	var added []model.Message
	for _, m := range r.messages {
		if _, ok := r.initial[m.ID]; !ok {
			added = append(added, m.Clone())
		}
	}
	return &RunResult[S]{
		Result:      r.result,
		NewMessages: added,
		Messages:    model.CloneMessages(r.messages),
		NewState:    r.state,
		RunError:    r.runError,
	}, nil
}

func (r *run[S]) fail(ctx context.Context, err error) error {
	p := r.params()
	for _, s := range r.subs {
		if herr := s.OnRunFailed(ctx, err, p); herr != nil {
			log.Warnf("client: run %s: run failed hook: %v", r.input.RunID, herr)
		}
	}
	return err
}

func (r *run[S]) params() Params[S] {
	return Params[S]{Messages: r.messages, State: r.state, Input: r.input}
}

// view is the params a hook sees while m is pending.
func (r *run[S]) view(m Mutation[S]) Params[S] {
	p := r.params()
	if m.Messages != nil {
		p.Messages = m.Messages
	}
	if m.State != nil {
		p.State = *m.State
	}
	return p
}

// merge lets the non-empty parts of next replace those of pending.
func merge[S any](pending, next Mutation[S]) Mutation[S] {
	if next.Messages != nil {
		pending.Messages = next.Messages
	}
	if next.State != nil {
		pending.State = next.State
	}
	pending.StopPropagation = next.StopPropagation
	return pending
}

func messageIDs(msgs []model.Message) map[model.MessageID]struct{} {
	ids := make(map[model.MessageID]struct{}, len(msgs))
	for _, m := range msgs {
		ids[m.ID] = struct{}{}
	}
	return ids
}

func hookError(e event.Event, err error) error {
	return wrap(err, KindExecution, fmt.Sprintf("%s hook", e.Type()))
}
