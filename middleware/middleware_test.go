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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

func types(events []event.Event) []event.EventType {
	out := make([]event.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type()
	}
	return out
}

func TestChainOrder(t *testing.T) {
	ctx := context.Background()
	var order []string
	tag := func(name string) Transformer {
		return Map(func(e event.Event) ([]event.Event, error) {
			order = append(order, name)
			return []event.Event{e}, nil
		})
	}
	in := event.FromEvents(ctx, event.NewStepStartedEvent("s"))
	got, err := event.Collect(ctx, Chain(tag("a"), nil, tag("b")).Transform(ctx, in))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestFilterAndErrors(t *testing.T) {
	ctx := context.Background()
	in := event.FromEvents(ctx, event.NewStepStartedEvent("a"), event.NewCustomEvent("x", nil), event.NewStepFinishedEvent("a"))
	onlySteps := Filter(func(e event.Event) bool { return e.Type() != event.TypeCustom })
	got, err := event.Collect(ctx, onlySteps.Transform(ctx, in))
	require.NoError(t, err)
	assert.Equal(t, []event.EventType{event.TypeStepStarted, event.TypeStepFinished}, types(got))

	boom := errors.New("boom")
	failing := Map(func(event.Event) ([]event.Event, error) { return nil, boom })
	_, err = event.Collect(ctx, failing.Transform(ctx, event.FromEvents(ctx, event.NewStepStartedEvent("a"))))
	assert.ErrorIs(t, err, boom)

	_, err = event.Collect(ctx, onlySteps.Transform(ctx, event.FromError(boom)))
	assert.ErrorIs(t, err, boom)
}

func TestExpandChunks(t *testing.T) {
	ctx := context.Background()
	thread, run := model.ThreadIDFrom("t"), model.RunIDFrom("r")
	m1, m2 := model.MessageIDFrom("m1"), model.MessageIDFrom("m2")
	in := event.FromEvents(ctx,
		event.NewRunStartedEvent(thread, run),
		event.NewTextMessageChunkEvent(&m1, "Hel"),
		event.NewTextMessageChunkEvent(nil, "lo"),
		event.NewTextMessageChunkEvent(&m2, "Bye"),
		event.NewToolCallChunkEvent("tc1", "search", `{"q":`),
		event.NewToolCallChunkEvent("", "", `"x"}`),
		event.NewRunFinishedEvent(thread, run, nil),
	)
	got, err := event.Collect(ctx, ExpandChunks().Transform(ctx, in))
	require.NoError(t, err)
	assert.Equal(t, []event.EventType{
		event.TypeRunStarted,
		event.TypeTextMessageStart, event.TypeTextMessageContent, event.TypeTextMessageContent, event.TypeTextMessageEnd,
		event.TypeTextMessageStart, event.TypeTextMessageContent, event.TypeTextMessageEnd,
		event.TypeToolCallStart, event.TypeToolCallArgs, event.TypeToolCallArgs, event.TypeToolCallEnd,
		event.TypeRunFinished,
	}, types(got))
	assert.NoError(t, verify.Events(got))

	args := got[10].(*event.ToolCallArgsEvent)
	assert.Equal(t, model.ToolCallID("tc1"), args.ToolCallID)
	assert.Equal(t, `"x"}`, args.Delta)
}

func TestExpandChunksClosesAtStreamEnd(t *testing.T) {
	ctx := context.Background()
	m1 := model.MessageIDFrom("m1")
	got, err := event.Collect(ctx, ExpandChunks().Transform(ctx, event.FromEvents(ctx, event.NewTextMessageChunkEvent(&m1, "x"))))
	require.NoError(t, err)
	assert.Equal(t, []event.EventType{event.TypeTextMessageStart, event.TypeTextMessageContent, event.TypeTextMessageEnd}, types(got))
}

func TestExpandChunksOrphan(t *testing.T) {
	ctx := context.Background()
	_, err := event.Collect(ctx, ExpandChunks().Transform(ctx, event.FromEvents(ctx, event.NewTextMessageChunkEvent(nil, "x"))))
	assert.ErrorIs(t, err, ErrOrphanChunk)
}
