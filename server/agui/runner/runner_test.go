//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/state"
)

func newInput() *model.RunAgentInput {
	return &model.RunAgentInput{ThreadID: model.NewThreadID(), RunID: model.NewRunID()}
}

// scripted replays items and then closes the stream.
func scripted(items ...event.StreamItem) adapter.Agent {
	return adapter.NewAgent("scripted", func(ctx context.Context, _ *model.RunAgentInput) (event.Stream, error) {
		ch := make(chan event.StreamItem)
		go func() {
			defer close(ch)
			for _, it := range items {
				if !event.Send(ctx, ch, it) {
					return
				}
			}
		}()
		return ch, nil
	})
}

func ev(e event.Event) event.StreamItem { return event.StreamItem{Event: e} }

func collect(t *testing.T, s event.Stream) []event.Event {
	t.Helper()
	events, err := event.Collect(context.Background(), s)
	require.NoError(t, err)
	return events
}

func TestNewRequiresAgent(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(
		WithTransformers(middleware.ExpandChunks()),
		WithVerification(true),
		WithMaxConcurrentRuns(4),
	)
	assert.Len(t, opts.Transformers, 1)
	assert.True(t, opts.Verify)
	assert.Equal(t, 4, opts.MaxConcurrentRuns)
}

func TestRunForwardsEvents(t *testing.T) {
	in := newInput()
	r, err := New(scripted(
		ev(event.NewRunStartedEvent(in.ThreadID, in.RunID)),
		ev(event.NewRunFinishedEvent(in.ThreadID, in.RunID, nil)),
	))
	require.NoError(t, err)
	defer r.Close()

	s, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	events := collect(t, s)
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeRunFinished, events[1].Type())
}

func TestRunValidatesInput(t *testing.T) {
	r, err := New(scripted())
	require.NoError(t, err)
	_, err = r.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunStartFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	r, err := New(adapter.NewAgent("broken", func(context.Context, *model.RunAgentInput) (event.Stream, error) {
		return nil, boom
	}))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), newInput())
	assert.ErrorIs(t, err, boom)
}

func TestStreamErrorBecomesRunError(t *testing.T) {
	in := newInput()
	r, err := New(scripted(
		ev(event.NewRunStartedEvent(in.ThreadID, in.RunID)),
		event.StreamItem{Err: &state.Error{Op: "apply patch", Err: errors.New("missing path")}},
		ev(event.NewRunFinishedEvent(in.ThreadID, in.RunID, nil)),
	))
	require.NoError(t, err)

	s, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	events := collect(t, s)
	require.Len(t, events, 2)
	runErr, ok := events[1].(*event.RunErrorEvent)
	require.True(t, ok)
	assert.Equal(t, string(adapter.CodeStateError), runErr.Code)
}

func TestVerificationRejects(t *testing.T) {
	in := newInput()
	content, err := event.NewTextMessageContentEvent(model.NewMessageID(), "hi")
	require.NoError(t, err)
	r, err := New(scripted(
		ev(event.NewRunStartedEvent(in.ThreadID, in.RunID)),
		ev(content),
	), WithVerification(true))
	require.NoError(t, err)

	s, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	events := collect(t, s)
	require.Len(t, events, 2)
	runErr, ok := events[1].(*event.RunErrorEvent)
	require.True(t, ok)
	assert.Equal(t, string(adapter.CodeProtocolViolation), runErr.Code)
	assert.Contains(t, runErr.Message, "no active text message")
}

func TestTransformers(t *testing.T) {
	in := newInput()
	id := model.NewMessageID()
	r, err := New(scripted(
		ev(event.NewRunStartedEvent(in.ThreadID, in.RunID)),
		ev(event.NewTextMessageChunkEvent(&id, "hi")),
		ev(event.NewRunFinishedEvent(in.ThreadID, in.RunID, nil)),
	), WithTransformers(middleware.ExpandChunks()), WithVerification(true))
	require.NoError(t, err)

	s, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	var types []event.EventType
	for _, e := range collect(t, s) {
		types = append(types, e.Type())
	}
	assert.Equal(t, []event.EventType{
		event.TypeRunStarted,
		event.TypeTextMessageStart,
		event.TypeTextMessageContent,
		event.TypeTextMessageEnd,
		event.TypeRunFinished,
	}, types)
}

func TestMaxConcurrentRuns(t *testing.T) {
	in := newInput()
	r, err := New(scripted(
		ev(event.NewRunStartedEvent(in.ThreadID, in.RunID)),
		ev(event.NewRunFinishedEvent(in.ThreadID, in.RunID, nil)),
	), WithMaxConcurrentRuns(1))
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Run(context.Background(), in)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), in)
	assert.ErrorIs(t, err, ErrTooManyRuns)

	assert.Len(t, collect(t, first), 2)
	assert.Eventually(t, func() bool {
		s, err := r.Run(context.Background(), in)
		if err != nil {
			return false
		}
		events, err := event.Collect(context.Background(), s)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCancelEndsStream(t *testing.T) {
	in := newInput()
	agent := adapter.NewAgent("idle", func(ctx context.Context, in *model.RunAgentInput) (event.Stream, error) {
		ch := make(chan event.StreamItem)
		go func() {
			defer close(ch)
			if event.Send(ctx, ch, ev(event.NewRunStartedEvent(in.ThreadID, in.RunID))) {
				<-ctx.Done()
			}
		}()
		return ch, nil
	})
	r, err := New(agent)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s, err := r.Run(ctx, in)
	require.NoError(t, err)
	item := <-s
	require.NoError(t, item.Err)
	assert.Equal(t, event.TypeRunStarted, item.Event.Type())
	cancel()

	select {
	case _, ok := <-s:
		for ok {
			_, ok = <-s
		}
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancel")
	}
}
