//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package agui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agui-go/client"
	clientsse "trpc.group/trpc-go/trpc-agui-go/client/sse"
	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/state"
)

type counter struct {
	Turns int `json:"turns"`
}

func TestNewNilAgent(t *testing.T) {
	srv, err := New(nil)
	assert.Nil(t, srv)
	assert.EqualError(t, err, "agui: agent must not be nil")
}

func TestNewNilServiceFactory(t *testing.T) {
	srv, err := New(&echoAgent{}, WithServiceFactory(nil))
	assert.Nil(t, srv)
	assert.EqualError(t, err, "agui: serviceFactory must not be nil")
}

func TestDefaultPaths(t *testing.T) {
	srv, err := New(&echoAgent{})
	require.NoError(t, err)
	assert.Equal(t, "/", srv.Path())
	assert.Equal(t, "/health", srv.HealthPath())
}

func TestEndToEnd(t *testing.T) {
	for _, proto := range []bool{false, true} {
		agent := &echoAgent{}
		srv, err := New(agent, WithPath("/agui"), WithProtobuf(proto),
			WithRunnerOptions(runner.WithVerification(true)))
		require.NoError(t, err)
		ts := httptest.NewServer(srv.Handler())

		var opts []clientsse.Option
		if proto {
			opts = append(opts, clientsse.WithAccept(encoding.ContentTypeProtobuf))
		}
		remote, err := clientsse.NewAgent(ts.URL+"/agui", opts...)
		require.NoError(t, err)
		r, err := client.NewRunner[counter](remote)
		require.NoError(t, err)

		res, err := r.Run(context.Background(), client.RunParams[counter]{
			Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), "hi there")},
			State:    counter{Turns: 1},
		})
		ts.Close()
		require.NoError(t, err)

		require.Len(t, res.NewMessages, 1)
		text, _ := res.NewMessages[0].Text()
		assert.Equal(t, "echo: hi there", text)
		assert.Equal(t, model.RoleAssistant, res.NewMessages[0].Role)
		assert.Len(t, res.Messages, 2)
		assert.Equal(t, 2, res.NewState.Turns)
		assert.Equal(t, "done", res.Result)
		assert.Nil(t, res.RunError)
		assert.Equal(t, 1, agent.runs)
	}
}

func TestEndToEndRunError(t *testing.T) {
	agent := &echoAgent{fail: adapter.NewCustomError("quota exceeded")}
	srv, err := New(agent)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	remote, err := clientsse.NewAgent(ts.URL)
	require.NoError(t, err)
	r, err := client.NewRunner[counter](remote)
	require.NoError(t, err)
	res, err := r.Run(context.Background(), client.RunParams[counter]{
		Messages: []model.Message{model.NewUserMessage(model.NewMessageID(), "hi")},
	})
	require.NoError(t, err)
	require.NotNil(t, res.RunError)
	assert.Equal(t, "quota exceeded", res.RunError.Message)
	assert.Equal(t, string(adapter.CodeCustom), res.RunError.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		agent  adapter.Agent
		status int
		want   adapter.Health
	}{
		{
			name:   "default",
			agent:  &echoAgent{},
			status: http.StatusOK,
			want:   adapter.Health{Status: adapter.HealthHealthy, Agent: "echo"},
		},
		{
			name:   "degraded",
			agent:  &checkedAgent{health: adapter.Health{Status: adapter.HealthDegraded, Details: "slow"}},
			status: http.StatusOK,
			want:   adapter.Health{Status: adapter.HealthDegraded, Agent: "echo", Details: "slow"},
		},
		{
			name:   "unhealthy",
			agent:  &checkedAgent{health: adapter.Health{Status: adapter.HealthUnhealthy, Agent: "custom"}},
			status: http.StatusServiceUnavailable,
			want:   adapter.Health{Status: adapter.HealthUnhealthy, Agent: "custom"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := New(tt.agent)
			require.NoError(t, err)
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var got adapter.Health
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHealthPathDisabled(t *testing.T) {
	srv, err := New(&echoAgent{}, WithPath("/agui"), WithHealthPath(""))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, err := New(&echoAgent{}, WithPath("/agui"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodOptions, "/agui", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestLifecycle(t *testing.T) {
	agent := &checkedAgent{}
	srv, err := New(agent)
	require.NoError(t, err)

	require.NoError(t, srv.Init(context.Background()))
	assert.True(t, agent.initialized)
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.True(t, agent.shutdown)

	agent = &checkedAgent{shutdownErr: errors.New("busy")}
	srv, err = New(agent)
	require.NoError(t, err)
	assert.ErrorContains(t, srv.Shutdown(context.Background()), "busy")
}

func TestLifecycleWithoutHooks(t *testing.T) {
	srv, err := New(&echoAgent{}, WithRunnerOptions(runner.WithMaxConcurrentRuns(2)))
	require.NoError(t, err)
	assert.NoError(t, srv.Init(context.Background()))
	assert.NoError(t, srv.Shutdown(context.Background()))
}

// echoAgent answers the last user message and counts turns in the state.
type echoAgent struct {
	runs int
	fail error
}

func (a *echoAgent) Name() string { return "echo" }

func (a *echoAgent) Run(ctx context.Context, input *model.RunAgentInput) (event.Stream, error) {
	a.runs++
	c, err := state.Convert[counter](input.State)
	if err != nil {
		return nil, err
	}
	mgr := state.New(c)
	out := make(chan event.StreamItem)
	go func() {
		defer close(out)
		if !event.Send(ctx, out, event.StreamItem{Event: event.NewRunStartedEvent(input.ThreadID, input.RunID)}) {
			return
		}
		if a.fail != nil {
			event.Send(ctx, out, event.StreamItem{Err: a.fail})
			return
		}
		msg, _ := input.LastUserMessage()
		text, _ := msg.Text()
		id := model.NewMessageID()
		content, err := event.NewTextMessageContentEvent(id, "echo: "+text)
		if err != nil {
			event.Send(ctx, out, event.StreamItem{Err: err})
			return
		}
		delta, err := mgr.UpdateEvent(func(s *counter) { s.Turns++ })
		if err != nil {
			event.Send(ctx, out, event.StreamItem{Err: err})
			return
		}
		for _, e := range []event.Event{
			event.NewTextMessageStartEvent(id),
			content,
			event.NewTextMessageEndEvent(id),
			delta,
			event.NewRunFinishedEvent(input.ThreadID, input.RunID, "done"),
		} {
			if !event.Send(ctx, out, event.StreamItem{Event: e}) {
				return
			}
		}
	}()
	return out, nil
}

type checkedAgent struct {
	echoAgent
	health      adapter.Health
	initialized bool
	shutdown    bool
	shutdownErr error
}

func (a *checkedAgent) Init(context.Context) error {
	a.initialized = true
	return nil
}

func (a *checkedAgent) Shutdown(context.Context) error {
	a.shutdown = true
	return a.shutdownErr
}

func (a *checkedAgent) Health(context.Context) adapter.Health {
	return a.health
}
