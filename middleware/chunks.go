//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package middleware

import (
	"context"
	"errors"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// ErrOrphanChunk is returned for a chunk without an id while no chunked
// message or tool call is open.
var ErrOrphanChunk = errors.New("middleware: chunk without id outside an open message or tool call")

// ExpandChunks rewrites TEXT_MESSAGE_CHUNK and TOOL_CALL_CHUNK events into
// explicit START, CONTENT/ARGS and END events. An open message or tool call is
// closed when the id changes, when any other event arrives, and when the
// stream ends.
func ExpandChunks() Transformer {
	return TransformerFunc(func(ctx context.Context, in event.Stream) event.Stream {
		x := &expander{}
		return Pipe(ctx, in, x.step, x.closeAll)
	})
}

type expander struct {
	message    *model.MessageID
	toolCall   model.ToolCallID
	toolCallOn bool
}

func (x *expander) step(e event.Event, emit func(event.Event) bool) error {
	switch e := e.(type) {
	case *event.TextMessageChunkEvent:
		return x.text(e, emit)
	case *event.ToolCallChunkEvent:
		return x.tool(e, emit)
	default:
		if err := x.closeAll(emit); err != nil {
			return err
		}
		emit(e)
		return nil
	}
}

func (x *expander) text(e *event.TextMessageChunkEvent, emit func(event.Event) bool) error {
	x.closeToolCall(emit)
	if e.MessageID != nil && (x.message == nil || !x.message.Equal(*e.MessageID)) {
		x.closeMessage(emit)
		id := *e.MessageID
		start := event.NewTextMessageStartEvent(id)
		if e.Role != "" {
			start.Role = e.Role
		}
		emit(start)
		x.message = &id
	}
	if x.message == nil {
		return ErrOrphanChunk
	}
	if e.Delta != "" {
		content := &event.TextMessageContentEvent{
			BaseEvent: e.BaseEvent,
			MessageID: *x.message,
			Delta:     e.Delta,
		}
		content.EventType = event.TypeTextMessageContent
		emit(content)
	}
	return nil
}

func (x *expander) tool(e *event.ToolCallChunkEvent, emit func(event.Event) bool) error {
	x.closeMessage(emit)
	if e.ToolCallID != "" && (!x.toolCallOn || x.toolCall != e.ToolCallID) {
		x.closeToolCall(emit)
		emit(event.NewToolCallStartEvent(e.ToolCallID, e.ToolCallName, e.ParentMessageID))
		x.toolCall, x.toolCallOn = e.ToolCallID, true
	}
	if !x.toolCallOn {
		return ErrOrphanChunk
	}
	if e.Delta != "" {
		args := &event.ToolCallArgsEvent{
			BaseEvent:  e.BaseEvent,
			ToolCallID: x.toolCall,
			Delta:      e.Delta,
		}
		args.EventType = event.TypeToolCallArgs
		emit(args)
	}
	return nil
}

func (x *expander) closeMessage(emit func(event.Event) bool) {
	if x.message != nil {
		emit(event.NewTextMessageEndEvent(*x.message))
		x.message = nil
	}
}

func (x *expander) closeToolCall(emit func(event.Event) bool) {
	if x.toolCallOn {
		emit(event.NewToolCallEndEvent(x.toolCall))
		x.toolCall, x.toolCallOn = "", false
	}
}

func (x *expander) closeAll(emit func(event.Event) bool) error {
	x.closeMessage(emit)
	x.closeToolCall(emit)
	return nil
}
