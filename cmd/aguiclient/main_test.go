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
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agui-go/client"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	aguistate "trpc.group/trpc-go/trpc-agui-go/state"
)

func newTestServer(t *testing.T, fail bool) string {
	t.Helper()
	agent := adapter.NewAgent("scripted", func(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
		if fail {
			return event.FromEvents(ctx,
				event.NewRunStartedEvent(input.ThreadID, input.RunID),
				event.NewRunErrorEvent("model unavailable", "CUSTOM_ERROR"),
			), nil
		}
		st := aguistate.New(map[string]any{})
		delta, err := st.UpdateEvent(func(s *map[string]any) { (*s)["seen"] = true })
		if err != nil {
			return nil, err
		}
		msgID := model.MessageIDFrom("m1")
		content, err := event.NewTextMessageContentEvent(msgID, "hello")
		if err != nil {
			return nil, err
		}
		return event.FromEvents(ctx,
			event.NewRunStartedEvent(input.ThreadID, input.RunID),
			event.NewTextMessageStartEvent(msgID),
			content,
			event.NewTextMessageEndEvent(msgID),
			event.NewToolCallStartEvent("call_1", "lookup", &msgID),
			event.NewToolCallArgsEvent("call_1", `{"q":"x"}`),
			event.NewToolCallEndEvent("call_1"),
			event.NewToolCallResultEvent(model.MessageIDFrom("m2"), "call_1", "found"),
			delta,
			event.NewRunFinishedEvent(input.ThreadID, input.RunID, "ok"),
		), nil
	})
	srv, err := agui.New(agent, agui.WithPath("/agui"), agui.WithProtobuf(true))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/agui"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClientPrintsTranscript(t *testing.T) {
	url := newTestServer(t, false)
	for _, extra := range [][]string{nil, {"--proto"}} {
		args := append([]string{"--url", url, "-m", "hi", "-H", "X-Request-ID=r1"}, extra...)
		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Equal(t, "hello\n"+
			`-> lookup({"q":"x"})`+"\n"+
			"<- found\n"+
			`state: {"seen":true}`+"\n"+
			`result: "ok"`+"\n", out)
	}
}

func TestClientBlockedTool(t *testing.T) {
	out, err := execute(t, "--url", newTestServer(t, false), "-m", "hi", "--block-tool", "lookup")
	require.NoError(t, err)
	assert.NotContains(t, out, "-> lookup")
	assert.Contains(t, out, "hello\n")
}

func TestClientRunError(t *testing.T) {
	out, err := execute(t, "--url", newTestServer(t, true), "-m", "hi")
	assert.ErrorContains(t, err, "model unavailable")
	assert.Contains(t, out, "error [CUSTOM_ERROR]: model unavailable")
}

func TestClientFlagErrors(t *testing.T) {
	_, err := execute(t, "--url", "http://localhost:1/")
	assert.Error(t, err)

	_, err = execute(t, "--url", "ftp://host/", "-m", "hi")
	assert.Equal(t, client.KindConfig, client.KindOf(err))

	_, err = execute(t, "--url", "http://localhost:1/", "-m", "hi", "--state", "{")
	assert.Equal(t, client.KindConfig, client.KindOf(err))
}

func TestRunnerOptions(t *testing.T) {
	opts, err := runnerOptions(&flags{threadID: "t1", noVerify: true, allowTools: []string{"a"}})
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	_, err = runnerOptions(&flags{allowTools: []string{"a"}, blockTools: []string{"b"}})
	assert.Equal(t, client.KindConfig, client.KindOf(err))
}
