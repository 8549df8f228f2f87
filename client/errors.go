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

	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/patch"
	"trpc.group/trpc-go/trpc-agui-go/state"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

// ErrorKind classifies run failures.
type ErrorKind int

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	// KindConfig is a bad option or a missing required value.
	KindConfig
	// KindTransport is a connection failure, an HTTP error status or broken framing.
	KindTransport
	// KindSerialization is an event that could not be decoded.
	KindSerialization
	// KindProtocol is an event sequence rejected by the verifier.
	KindProtocol
	// KindState is a state patch or conversion failure.
	KindState
	// KindExecution is a failure raised by a subscriber or the agent.
	KindExecution
)

var kindNames = map[ErrorKind]string{
	KindUnknown:       "unknown",
	KindConfig:        "config",
	KindTransport:     "transport",
	KindSerialization: "serialization",
	KindProtocol:      "protocol",
	KindState:         "state",
	KindExecution:     "execution",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by the client packages.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError returns an *Error of the given kind.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return "agui: " + e.Kind.String() + " error"
	case e.Err == nil:
		return "agui: " + e.Kind.String() + ": " + e.Message
	case e.Message == "":
		return "agui: " + e.Kind.String() + ": " + e.Err.Error()
	default:
		return "agui: " + e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors from the verify, state, patch, event and
// encoding packages are recognised even when not wrapped in an *Error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var (
		ce  *Error
		pe  *verify.ProtocolError
		se  *state.Error
		pae *patch.Error
		de  *event.DecodeError
		ee  *encoding.Error
		tl  *encoding.TooLargeError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Kind
	case errors.As(err, &pe), errors.Is(err, middleware.ErrOrphanChunk):
		return KindProtocol
	case errors.As(err, &se), errors.As(err, &pae):
		return KindState
	case errors.As(err, &de), errors.As(err, &ee), errors.As(err, &tl):
		return KindSerialization
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	}
	return KindUnknown
}

// wrap gives err a kind, keeping an existing classification.
func wrap(err error, fallback ErrorKind, message string) error {
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	kind := KindOf(err)
	if kind == KindUnknown {
		kind = fallback
	}
	return &Error{Kind: kind, Message: message, Err: err}
}
