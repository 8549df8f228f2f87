//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/state"
)

const lookupTool = "lookup"

// echoState is the state the echo agent keeps per thread.
type echoState struct {
	Turns int    `json:"turns"`
	Last  string `json:"last,omitempty"`
}

// echoAgent streams the last user message back word by word. Messages that
// start with "?" also produce a lookup tool call.
type echoAgent struct {
	delay time.Duration
}

func newEchoAgent(delay time.Duration) *echoAgent {
	return &echoAgent{delay: delay}
}

func (a *echoAgent) Name() string { return "echo" }

func (a *echoAgent) Health(context.Context) adapter.Health {
	return adapter.Health{Status: adapter.HealthHealthy, Agent: a.Name()}
}

func (a *echoAgent) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	initial, err := state.Convert[echoState](input.State)
	if err != nil {
		return nil, adapter.NewAgentError(adapter.CodeStateError, "invalid state", err)
	}
	out := make(chan event.StreamItem)
	go func() {
		defer close(out)
		if err := a.run(ctx, input, state.New(initial), out); err != nil {
			event.Send(ctx, out, event.StreamItem{Err: err})
		}
	}()
	return out, nil
}

func (a *echoAgent) run(ctx context.Context, input *model.RunAgentInput, st *state.Manager[echoState], out chan<- event.StreamItem) error {
	emit := func(e event.Event) error {
		if !event.Send(ctx, out, event.StreamItem{Event: e}) {
			return ctx.Err()
		}
		return nil
	}
	if err := emit(event.NewRunStartedEvent(input.ThreadID, input.RunID, event.WithCurrentTime())); err != nil {
		return err
	}
	var text string
	if msg, ok := input.LastUserMessage(); ok {
		text, _ = msg.Text()
	}
	if err := emit(event.NewStepStartedEvent("echo")); err != nil {
		return err
	}
	id := model.NewMessageID()
	if err := emit(event.NewTextMessageStartEvent(id)); err != nil {
		return err
	}
	for i, word := range strings.Fields(text) {
		if i > 0 {
			word = " " + word
		}
		if err := a.pause(ctx); err != nil {
			return err
		}
		content, err := event.NewTextMessageContentEvent(id, word)
		if err != nil {
			return err
		}
		if err := emit(content); err != nil {
			return err
		}
	}
	if err := emit(event.NewTextMessageEndEvent(id)); err != nil {
		return err
	}
	if query, ok := strings.CutPrefix(text, "?"); ok {
		if err := a.lookup(ctx, id, strings.TrimSpace(query), emit); err != nil {
			return err
		}
	}
	delta, err := st.UpdateEvent(func(s *echoState) {
		s.Turns++
		s.Last = text
	})
	if err != nil {
		return err
	}
	if delta != nil {
		if err := emit(delta); err != nil {
			return err
		}
	}
	if err := emit(event.NewStepFinishedEvent("echo")); err != nil {
		return err
	}
	var turns int
	st.Read(func(s echoState) { turns = s.Turns })
	return emit(event.NewRunFinishedEvent(input.ThreadID, input.RunID,
		map[string]any{"turns": turns}, event.WithCurrentTime()))
}

func (a *echoAgent) lookup(ctx context.Context, parent model.MessageID, query string, emit func(event.Event) error) error {
	args, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return err
	}
	callID := model.ToolCallID("call_" + uuid.NewString())
	for _, e := range []event.Event{
		event.NewToolCallStartEvent(callID, lookupTool, &parent),
		event.NewToolCallArgsEvent(callID, string(args)),
		event.NewToolCallEndEvent(callID),
		event.NewToolCallResultEvent(model.NewMessageID(), callID, "no results for "+query),
	} {
		if err := a.pause(ctx); err != nil {
			return err
		}
		if err := emit(e); err != nil {
			return err
		}
	}
	return nil
}

func (a *echoAgent) pause(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
