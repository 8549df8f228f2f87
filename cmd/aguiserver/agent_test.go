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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agui-go/client"
	"trpc.group/trpc-go/trpc-agui-go/client/sse"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

func runEcho(t *testing.T, cfg *Config, text string, st echoState) *client.RunResult[echoState] {
	t.Helper()
	srv, err := newServer(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	remote, err := sse.NewAgent(ts.URL + cfg.Path)
	require.NoError(t, err)
	r, err := client.NewRunner[echoState](remote)
	require.NoError(t, err)
	res, err := r.Run(context.Background(), client.RunParams[echoState]{
		Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), text)},
		State:    st,
	})
	require.NoError(t, err)
	return res
}

func TestEchoAgent(t *testing.T) {
	res := runEcho(t, defaultConfig(), "hello   agui world", echoState{Turns: 2})

	require.Len(t, res.NewMessages, 1)
	text, _ := res.NewMessages[0].Text()
	assert.Equal(t, "hello agui world", text)
	assert.Equal(t, echoState{Turns: 3, Last: "hello   agui world"}, res.NewState)
	assert.Equal(t, map[string]any{"turns": json.Number("3")}, res.Result)
}

func TestEchoAgentLookup(t *testing.T) {
	cfg := defaultConfig()
	cfg.Path = "/agui"
	res := runEcho(t, cfg, "? weather", echoState{})

	require.Len(t, res.NewMessages, 2)
	assistant := res.NewMessages[0]
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, lookupTool, assistant.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"weather"}`, assistant.ToolCalls[0].Function.Arguments)
	tool := res.NewMessages[1]
	assert.Equal(t, model.RoleTool, tool.Role)
	assert.Equal(t, assistant.ToolCalls[0].ID, tool.ToolCallID)
}

func TestEchoAgentStopsOnCancel(t *testing.T) {
	agent := newEchoAgent(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	input := &model.RunAgentInput{
		ThreadID: model.NewThreadID(),
		RunID:    model.NewRunID(),
		Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), "slow reply")},
	}
	stream, err := agent.Run(ctx, input)
	require.NoError(t, err)

	first := <-stream
	require.NoError(t, first.Err)
	assert.Equal(t, event.TypeRunStarted, first.Event.Type())
	cancel()
	for range stream {
	}
}

func TestEchoAgentRejectsBadState(t *testing.T) {
	agent := newEchoAgent(0)
	_, err := agent.Run(context.Background(), &model.RunAgentInput{
		ThreadID: model.NewThreadID(),
		RunID:    model.NewRunID(),
		State:    "not an object",
	})
	assert.Error(t, err)
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "aguiserver", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}
