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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/service"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := newOptions()
	assert.Equal(t, "/", opts.path)
	assert.Equal(t, "/health", opts.healthPath)
	assert.NotNil(t, opts.serviceFactory)
	assert.Empty(t, opts.runnerOptions)
	assert.False(t, opts.protobuf)
	assert.Equal(t, []string{"*"}, opts.allowedOrigins)
}

func TestOptionMutators(t *testing.T) {
	var got []service.Option
	factory := func(_ runner.Runner, opt ...service.Option) service.Service {
		got = opt
		return &stubService{handler: http.NewServeMux()}
	}

	opts := newOptions(
		WithPath("/agui"),
		WithHealthPath("/healthz"),
		WithServiceFactory(factory),
		WithRunnerOptions(runner.WithVerification(true)),
		WithRunnerOptions(runner.WithMaxConcurrentRuns(4)),
		WithProtobuf(true),
		WithAllowedOrigins("https://app.example.com"),
	)

	assert.Equal(t, "/agui", opts.path)
	assert.Equal(t, "/healthz", opts.healthPath)
	assert.Len(t, opts.runnerOptions, 2)
	assert.True(t, opts.protobuf)
	assert.Equal(t, []string{"https://app.example.com"}, opts.allowedOrigins)

	srv, err := New(&echoAgent{},
		WithPath("/agui"),
		WithProtobuf(true),
		WithServiceFactory(factory),
	)
	assert.NoError(t, err)
	assert.NotNil(t, srv.Handler())
	applied := service.NewOptions(got...)
	assert.Equal(t, "/agui", applied.Path)
	assert.True(t, applied.Protobuf)
}

type stubService struct {
	handler http.Handler
}

func (s *stubService) Handler() http.Handler { return s.handler }
