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

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// Params is the read-only view handed to subscriber hooks. Hooks must not
// modify Messages or retain it after returning.
type Params[S any] struct {
	Messages []model.Message
	State    S
	Input    *model.RunAgentInput
}

// Mutation is a change requested by a subscriber hook. A nil Messages or
// State leaves that part unchanged.
type Mutation[S any] struct {
	Messages []model.Message
	State    *S
	// StopPropagation skips the remaining subscribers for the event.
	StopPropagation bool
}

// IsEmpty reports whether the mutation changes nothing.
func (m Mutation[S]) IsEmpty() bool {
	return m.Messages == nil && m.State == nil
}

// ToolCallArgs is the accumulated state of a streaming tool call.
type ToolCallArgs struct {
	// Buffer is the raw arguments text received so far.
	Buffer string
	// Name is the tool name.
	Name string
	// Partial is a best-effort parse of Buffer. It is empty, never nil, when
	// Buffer cannot be parsed.
	Partial map[string]any
}

// Subscriber observes a run. Hooks run sequentially in subscriber order and
// never concurrently for one run. Embed BaseSubscriber to implement only
// the hooks you need.
type Subscriber[S any] interface {
	// OnRunInitialized runs before the agent is contacted.
	OnRunInitialized(ctx context.Context, p Params[S]) (Mutation[S], error)
	// OnRunFailed runs once when the run terminates with err.
	OnRunFailed(ctx context.Context, err error, p Params[S]) error
	// OnRunFinalized runs once after the stream ended without error.
	OnRunFinalized(ctx context.Context, p Params[S]) error

	// OnEvent runs for every event before the variant hook. Stopping
	// propagation here also skips the default mutation.
	OnEvent(ctx context.Context, e event.Event, p Params[S]) (Mutation[S], error)

	OnRunStartedEvent(ctx context.Context, e *event.RunStartedEvent, p Params[S]) (Mutation[S], error)
	OnRunFinishedEvent(ctx context.Context, e *event.RunFinishedEvent, p Params[S]) (Mutation[S], error)
	OnRunErrorEvent(ctx context.Context, e *event.RunErrorEvent, p Params[S]) (Mutation[S], error)
	OnStepStartedEvent(ctx context.Context, e *event.StepStartedEvent, p Params[S]) (Mutation[S], error)
	OnStepFinishedEvent(ctx context.Context, e *event.StepFinishedEvent, p Params[S]) (Mutation[S], error)
	OnTextMessageStartEvent(ctx context.Context, e *event.TextMessageStartEvent, p Params[S]) (Mutation[S], error)
	OnTextMessageContentEvent(ctx context.Context, e *event.TextMessageContentEvent, buffer string, p Params[S]) (Mutation[S], error)
	OnTextMessageEndEvent(ctx context.Context, e *event.TextMessageEndEvent, buffer string, p Params[S]) (Mutation[S], error)
	OnToolCallStartEvent(ctx context.Context, e *event.ToolCallStartEvent, p Params[S]) (Mutation[S], error)
	OnToolCallArgsEvent(ctx context.Context, e *event.ToolCallArgsEvent, args ToolCallArgs, p Params[S]) (Mutation[S], error)
	OnToolCallEndEvent(ctx context.Context, e *event.ToolCallEndEvent, name string, args map[string]any, p Params[S]) (Mutation[S], error)
	OnToolCallResultEvent(ctx context.Context, e *event.ToolCallResultEvent, p Params[S]) (Mutation[S], error)
	OnThinkingStartEvent(ctx context.Context, e *event.ThinkingStartEvent, p Params[S]) (Mutation[S], error)
	OnThinkingEndEvent(ctx context.Context, e *event.ThinkingEndEvent, p Params[S]) (Mutation[S], error)
	OnThinkingTextMessageStartEvent(ctx context.Context, e *event.ThinkingTextMessageStartEvent, p Params[S]) (Mutation[S], error)
	OnThinkingTextMessageContentEvent(ctx context.Context, e *event.ThinkingTextMessageContentEvent, p Params[S]) (Mutation[S], error)
	OnThinkingTextMessageEndEvent(ctx context.Context, e *event.ThinkingTextMessageEndEvent, p Params[S]) (Mutation[S], error)
	OnStateSnapshotEvent(ctx context.Context, e *event.StateSnapshotEvent, p Params[S]) (Mutation[S], error)
	OnStateDeltaEvent(ctx context.Context, e *event.StateDeltaEvent, p Params[S]) (Mutation[S], error)
	OnMessagesSnapshotEvent(ctx context.Context, e *event.MessagesSnapshotEvent, p Params[S]) (Mutation[S], error)
	OnRawEvent(ctx context.Context, e *event.RawEvent, p Params[S]) (Mutation[S], error)
	OnCustomEvent(ctx context.Context, e *event.CustomEvent, p Params[S]) (Mutation[S], error)

	// OnMessagesChanged runs after a mutation replaced the messages.
	OnMessagesChanged(ctx context.Context, p Params[S]) error
	// OnStateChanged runs after a mutation replaced the state.
	OnStateChanged(ctx context.Context, p Params[S]) error
	// OnNewMessage runs for each message a mutation added.
	OnNewMessage(ctx context.Context, m model.Message, p Params[S]) error
	// OnNewToolCall runs for each tool call on an added assistant message.
	OnNewToolCall(ctx context.Context, tc model.ToolCall, p Params[S]) error
	// OnRunFinished runs after a RUN_FINISHED event has been applied.
	OnRunFinished(ctx context.Context, result any, p Params[S]) error
}

// BaseSubscriber implements every hook as a no-op.
type BaseSubscriber[S any] struct{}

var _ Subscriber[any] = BaseSubscriber[any]{}

func (BaseSubscriber[S]) OnRunInitialized(context.Context, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnRunFailed(context.Context, error, Params[S]) error { return nil }
func (BaseSubscriber[S]) OnRunFinalized(context.Context, Params[S]) error      { return nil }
func (BaseSubscriber[S]) OnEvent(context.Context, event.Event, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnRunStartedEvent(context.Context, *event.RunStartedEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnRunFinishedEvent(context.Context, *event.RunFinishedEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnRunErrorEvent(context.Context, *event.RunErrorEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnStepStartedEvent(context.Context, *event.StepStartedEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnStepFinishedEvent(context.Context, *event.StepFinishedEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnTextMessageStartEvent(context.Context, *event.TextMessageStartEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnTextMessageContentEvent(context.Context, *event.TextMessageContentEvent, string, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnTextMessageEndEvent(context.Context, *event.TextMessageEndEvent, string, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnToolCallStartEvent(context.Context, *event.ToolCallStartEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnToolCallArgsEvent(context.Context, *event.ToolCallArgsEvent, ToolCallArgs, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnToolCallEndEvent(context.Context, *event.ToolCallEndEvent, string, map[string]any, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnToolCallResultEvent(context.Context, *event.ToolCallResultEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnThinkingStartEvent(context.Context, *event.ThinkingStartEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnThinkingEndEvent(context.Context, *event.ThinkingEndEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnThinkingTextMessageStartEvent(context.Context, *event.ThinkingTextMessageStartEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnThinkingTextMessageContentEvent(context.Context, *event.ThinkingTextMessageContentEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnThinkingTextMessageEndEvent(context.Context, *event.ThinkingTextMessageEndEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnStateSnapshotEvent(context.Context, *event.StateSnapshotEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnStateDeltaEvent(context.Context, *event.StateDeltaEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnMessagesSnapshotEvent(context.Context, *event.MessagesSnapshotEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnRawEvent(context.Context, *event.RawEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnCustomEvent(context.Context, *event.CustomEvent, Params[S]) (Mutation[S], error) {
	return Mutation[S]{}, nil
}
func (BaseSubscriber[S]) OnMessagesChanged(context.Context, Params[S]) error { return nil }
func (BaseSubscriber[S]) OnStateChanged(context.Context, Params[S]) error    { return nil }
func (BaseSubscriber[S]) OnNewMessage(context.Context, model.Message, Params[S]) error {
	return nil
}
func (BaseSubscriber[S]) OnNewToolCall(context.Context, model.ToolCall, Params[S]) error {
	return nil
}
func (BaseSubscriber[S]) OnRunFinished(context.Context, any, Params[S]) error { return nil }
