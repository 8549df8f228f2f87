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
	"trpc.group/trpc-go/trpc-agui-go/middleware"
)

// Options holds the options for the runner.
type Options struct {
	// Transformers are applied to the agent stream before verification.
	Transformers []middleware.Transformer
	// Verify checks the outbound stream against the protocol.
	Verify bool
	// MaxConcurrentRuns bounds the runs in flight. Zero means unbounded.
	MaxConcurrentRuns int
}

// NewOptions creates a new options instance.
func NewOptions(opt ...Option) *Options {
	opts := &Options{}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option is a function that configures the options.
type Option func(*Options)

// WithTransformers appends stream transformers.
func WithTransformers(ts ...middleware.Transformer) Option {
	return func(o *Options) {
		o.Transformers = append(o.Transformers, ts...)
	}
}

// WithVerification enables or disables verification of outbound streams.
func WithVerification(enabled bool) Option {
	return func(o *Options) {
		o.Verify = enabled
	}
}

// WithMaxConcurrentRuns bounds the number of runs in flight. Runs beyond the
// limit are rejected with ErrTooManyRuns.
func WithMaxConcurrentRuns(n int) Option {
	return func(o *Options) {
		o.MaxConcurrentRuns = n
	}
}
