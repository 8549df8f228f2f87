//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package client

import (
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// Option configures a Runner.
type Option func(*options)

type options struct {
	transformers []middleware.Transformer
	verify       bool
	threadID     model.ThreadID
}

func newOptions(opts ...Option) options {
	o := options{verify: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTransformers appends stream transformers. They run in order before
// verification, so a transformer may turn chunk events into the sequences
// the verifier expects.
func WithTransformers(ts ...middleware.Transformer) Option {
	return func(o *options) {
		o.transformers = append(o.transformers, ts...)
	}
}

// WithoutVerification disables the protocol verifier.
func WithoutVerification() Option {
	return func(o *options) {
		o.verify = false
	}
}

// WithThreadID sets the thread id sent with every run. A fresh id is
// generated per run by default.
func WithThreadID(id model.ThreadID) Option {
	return func(o *options) {
		o.threadID = id
	}
}
