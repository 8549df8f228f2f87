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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/patch"
	"trpc.group/trpc-go/trpc-agui-go/state"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("x"), KindUnknown},
		{"client error", NewError(KindConfig, "bad url", nil), KindConfig},
		{"protocol", &verify.ProtocolError{Type: event.TypeRunStarted, Reason: "run already started"}, KindProtocol},
		{"orphan chunk", fmt.Errorf("expand: %w", middleware.ErrOrphanChunk), KindProtocol},
		{"state", &state.Error{Op: "apply patch", Err: errors.New("x")}, KindState},
		{"patch", &patch.Error{Op: "apply", Err: errors.New("x")}, KindState},
		{"decode", &event.DecodeError{Type: "X", Err: errors.New("x")}, KindSerialization},
		{"encoding", &encoding.Error{Op: "encode", Err: errors.New("x")}, KindSerialization},
		{"cancelled", fmt.Errorf("read: %w", context.Canceled), KindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("refused")
	err := NewError(KindTransport, "dial", cause)
	assert.Equal(t, "agui: transport: dial: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "agui: config: agent is required", NewError(KindConfig, "agent is required", nil).Error())
	assert.Equal(t, "agui: state error", (&Error{Kind: KindState}).Error())
}

func TestWrapKeepsClassification(t *testing.T) {
	inner := NewError(KindProtocol, "bad", nil)
	assert.Same(t, inner, wrap(inner, KindTransport, "x"))
	assert.Equal(t, KindExecution, KindOf(wrap(errors.New("x"), KindExecution, "hook")))
	assert.Equal(t, KindState, KindOf(wrap(&state.Error{Op: "diff", Err: errors.New("x")}, KindExecution, "hook")))
}
