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
	"trpc.group/trpc-go/trpc-agui-go/state"
)

// hookInfo carries the derived values some variant hooks receive.
type hookInfo struct {
	buffer   string
	toolName string
	args     map[string]any
}

// fold computes the default mutation of e against p. It works on copies
// and never touches p.Messages.
func fold[S any](e event.Event, p Params[S]) (Mutation[S], hookInfo, error) {
	var (
		m    Mutation[S]
		info hookInfo
	)
	switch e := e.(type) {
	case *event.TextMessageStartEvent:
		role := e.Role
		if role == "" {
			role = model.RoleAssistant
		}
		content := ""
		m.Messages = append(model.CloneMessages(p.Messages), model.Message{
			ID:      e.MessageID,
			Role:    role,
			Content: &content,
		})
	case *event.TextMessageContentEvent:
		msgs := model.CloneMessages(p.Messages)
		i := findMessage(msgs, e.MessageID)
		if i < 0 {
			i = len(msgs) - 1
		}
		if i < 0 {
			break
		}
		msgs[i].AppendContent(e.Delta)
		info.buffer, _ = msgs[i].Text()
		m.Messages = msgs
	case *event.TextMessageEndEvent:
		if i := findMessage(p.Messages, e.MessageID); i >= 0 {
			info.buffer, _ = p.Messages[i].Text()
		}
	case *event.ToolCallStartEvent:
		m.Messages = startToolCall(model.CloneMessages(p.Messages), e)
	case *event.ToolCallArgsEvent:
		msgs := model.CloneMessages(p.Messages)
		mi, ti := findToolCall(msgs, e.ToolCallID)
		if mi < 0 {
			mi, ti = lastToolCall(msgs)
		}
		if mi < 0 {
			break
		}
		tc := &msgs[mi].ToolCalls[ti]
		tc.Function.Arguments += e.Delta
		info.buffer = tc.Function.Arguments
		info.toolName = tc.Function.Name
		info.args = parsePartialArgs(info.buffer)
		m.Messages = msgs
	case *event.ToolCallEndEvent:
		info.args = map[string]any{}
		if mi, ti := findToolCall(p.Messages, e.ToolCallID); mi >= 0 {
			tc := p.Messages[mi].ToolCalls[ti]
			info.toolName = tc.Function.Name
			info.args = parseArgs(tc.Function.Arguments)
		}
	case *event.ToolCallResultEvent:
		content := e.Content
		m.Messages = append(model.CloneMessages(p.Messages), model.Message{
			ID:         e.MessageID,
			Role:       model.RoleTool,
			Content:    &content,
			ToolCallID: e.ToolCallID,
		})
	case *event.StateSnapshotEvent:
		s, err := state.Convert[S](e.Snapshot)
		if err != nil {
			return m, info, wrap(err, KindState, "state snapshot")
		}
		m.State = &s
	case *event.StateDeltaEvent:
		s, err := state.Apply(p.State, e.Delta)
		if err != nil {
			return m, info, wrap(err, KindState, "state delta")
		}
		m.State = &s
	}
	return m, info, nil
}

// startToolCall appends the tool call to the last message when the parent
// id names it, and otherwise adds a new assistant message carrying the call.
// The new message reuses the parent id only if no message already has it.
func startToolCall(msgs []model.Message, e *event.ToolCallStartEvent) []model.Message {
	tc := model.NewToolCall(e.ToolCallID, e.ToolCallName)
	if n := len(msgs); n > 0 && e.ParentMessageID != nil && msgs[n-1].ID.Equal(*e.ParentMessageID) {
		if calls := msgs[n-1].ToolCallsMut(); calls != nil {
			*calls = append(*calls, tc)
			return msgs
		}
	}
	id := model.NewMessageID()
	if parent := e.ParentMessageID; parent != nil && !parent.IsZero() && findMessage(msgs, *parent) < 0 {
		id = *parent
	}
	return append(msgs, model.Message{
		ID:        id,
		Role:      model.RoleAssistant,
		ToolCalls: []model.ToolCall{tc},
	})
}

func findMessage(msgs []model.Message, id model.MessageID) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ID.Equal(id) {
			return i
		}
	}
	return -1
}

// findToolCall locates a tool call, newest message first.
func findToolCall(msgs []model.Message, id model.ToolCallID) (int, int) {
	for i := len(msgs) - 1; i >= 0; i-- {
		calls := msgs[i].ToolCalls
		for j := len(calls) - 1; j >= 0; j-- {
			if calls[j].ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

// lastToolCall returns the newest tool call of the last message.
func lastToolCall(msgs []model.Message) (int, int) {
	n := len(msgs)
	if n == 0 || len(msgs[n-1].ToolCalls) == 0 {
		return -1, -1
	}
	return n - 1, len(msgs[n-1].ToolCalls) - 1
}

func dispatch[S any](
	ctx context.Context,
	s Subscriber[S],
	e event.Event,
	info hookInfo,
	p Params[S],
) (Mutation[S], error) {
	switch e := e.(type) {
	case *event.RunStartedEvent:
		return s.OnRunStartedEvent(ctx, e, p)
	case *event.RunFinishedEvent:
		return s.OnRunFinishedEvent(ctx, e, p)
	case *event.RunErrorEvent:
		return s.OnRunErrorEvent(ctx, e, p)
	case *event.StepStartedEvent:
		return s.OnStepStartedEvent(ctx, e, p)
	case *event.StepFinishedEvent:
		return s.OnStepFinishedEvent(ctx, e, p)
	case *event.TextMessageStartEvent:
		return s.OnTextMessageStartEvent(ctx, e, p)
	case *event.TextMessageContentEvent:
		return s.OnTextMessageContentEvent(ctx, e, info.buffer, p)
	case *event.TextMessageEndEvent:
		return s.OnTextMessageEndEvent(ctx, e, info.buffer, p)
	case *event.ToolCallStartEvent:
		return s.OnToolCallStartEvent(ctx, e, p)
	case *event.ToolCallArgsEvent:
		args := ToolCallArgs{Buffer: info.buffer, Name: info.toolName, Partial: info.args}
		if args.Partial == nil {
			args.Partial = map[string]any{}
		}
		return s.OnToolCallArgsEvent(ctx, e, args, p)
	case *event.ToolCallEndEvent:
		return s.OnToolCallEndEvent(ctx, e, info.toolName, info.args, p)
	case *event.ToolCallResultEvent:
		return s.OnToolCallResultEvent(ctx, e, p)
	case *event.ThinkingStartEvent:
		return s.OnThinkingStartEvent(ctx, e, p)
	case *event.ThinkingEndEvent:
		return s.OnThinkingEndEvent(ctx, e, p)
	case *event.ThinkingTextMessageStartEvent:
		return s.OnThinkingTextMessageStartEvent(ctx, e, p)
	case *event.ThinkingTextMessageContentEvent:
		return s.OnThinkingTextMessageContentEvent(ctx, e, p)
	case *event.ThinkingTextMessageEndEvent:
		return s.OnThinkingTextMessageEndEvent(ctx, e, p)
	case *event.StateSnapshotEvent:
		return s.OnStateSnapshotEvent(ctx, e, p)
	case *event.StateDeltaEvent:
		return s.OnStateDeltaEvent(ctx, e, p)
	case *event.MessagesSnapshotEvent:
		return s.OnMessagesSnapshotEvent(ctx, e, p)
	case *event.RawEvent:
		return s.OnRawEvent(ctx, e, p)
	case *event.CustomEvent:
		return s.OnCustomEvent(ctx, e, p)
	}
	// Chunk events only reach here when no transformer expanded them.
	return Mutation[S]{}, nil
}
