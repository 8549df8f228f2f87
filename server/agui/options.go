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
	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/service"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/service/sse"
)

var (
	defaultPath           = "/"
	defaultHealthPath     = "/health"
	defaultServiceFactory = sse.New
)

// options holds the options for the AG-UI server.
type options struct {
	path           string
	healthPath     string
	serviceFactory ServiceFactory
	runnerOptions  []runner.Option
	protobuf       bool
	allowedOrigins []string
}

// newOptions creates a new options instance.
func newOptions(opt ...Option) *options {
	opts := &options{
		path:           defaultPath,
		healthPath:     defaultHealthPath,
		serviceFactory: defaultServiceFactory,
		allowedOrigins: []string{"*"},
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option is a function that configures the options.
type Option func(*options)

// WithPath sets the path for service listening.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithHealthPath sets the path of the health endpoint. An empty path
// disables it.
func WithHealthPath(path string) Option {
	return func(o *options) {
		o.healthPath = path
	}
}

// ServiceFactory is a function that creates AG-UI service.
type ServiceFactory func(runner runner.Runner, opt ...service.Option) service.Service

// WithServiceFactory sets the service factory, sse.New in default.
func WithServiceFactory(f ServiceFactory) Option {
	return func(o *options) {
		o.serviceFactory = f
	}
}

// WithRunnerOptions sets the AG-UI runner options.
func WithRunnerOptions(runnerOpts ...runner.Option) Option {
	return func(o *options) {
		o.runnerOptions = append(o.runnerOptions, runnerOpts...)
	}
}

// WithProtobuf lets clients negotiate the protobuf encoding.
func WithProtobuf(enabled bool) Option {
	return func(o *options) {
		o.protobuf = enabled
	}
}

// WithAllowedOrigins sets the CORS allowed origins, "*" in default.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) {
		o.allowedOrigins = origins
	}
}
