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
	"fmt"
	"io"

	"trpc.group/trpc-go/trpc-agui-go/client"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

type state = map[string]any

// printer writes a human readable transcript of a run.
type printer struct {
	client.BaseSubscriber[state]
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) OnTextMessageContentEvent(_ context.Context, e *event.TextMessageContentEvent, _ string, _ client.Params[state]) (client.Mutation[state], error) {
	fmt.Fprint(p.w, e.Delta)
	return client.Mutation[state]{}, nil
}

func (p *printer) OnTextMessageEndEvent(context.Context, *event.TextMessageEndEvent, string, client.Params[state]) (client.Mutation[state], error) {
	fmt.Fprintln(p.w)
	return client.Mutation[state]{}, nil
}

func (p *printer) OnToolCallEndEvent(_ context.Context, _ *event.ToolCallEndEvent, name string, args map[string]any, _ client.Params[state]) (client.Mutation[state], error) {
	b, _ := json.Marshal(args)
	fmt.Fprintf(p.w, "-> %s(%s)\n", name, b)
	return client.Mutation[state]{}, nil
}

func (p *printer) OnNewMessage(_ context.Context, m model.Message, _ client.Params[state]) error {
	if m.Role != model.RoleTool {
		return nil
	}
	text, _ := m.Text()
	fmt.Fprintf(p.w, "<- %s\n", text)
	return nil
}

func (p *printer) OnStateChanged(_ context.Context, params client.Params[state]) error {
	b, err := json.Marshal(params.State)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "state: %s\n", b)
	return nil
}

func (p *printer) OnRunErrorEvent(_ context.Context, e *event.RunErrorEvent, _ client.Params[state]) (client.Mutation[state], error) {
	fmt.Fprintf(p.w, "error [%s]: %s\n", e.Code, e.Message)
	return client.Mutation[state]{}, nil
}

func (p *printer) OnRunFinished(_ context.Context, result any, _ client.Params[state]) error {
	if result == nil {
		return nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "result: %s\n", b)
	return nil
}
