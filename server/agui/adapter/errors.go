//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package adapter

import (
	"context"
	"errors"
	"net"
	"syscall"

	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/middleware"
	"trpc.group/trpc-go/trpc-agui-go/patch"
	"trpc.group/trpc-go/trpc-agui-go/state"
	"trpc.group/trpc-go/trpc-agui-go/verify"
)

// ErrorCode is the code carried by RUN_ERROR events the server emits.
type ErrorCode string

// Error codes.
const (
	CodeAborted           ErrorCode = "ABORTED"
	CodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
	CodeStateError        ErrorCode = "STATE_ERROR"
	CodeEncodingError     ErrorCode = "ENCODING_ERROR"
	CodeTransportError    ErrorCode = "TRANSPORT_ERROR"
	CodeCustom            ErrorCode = "CUSTOM_ERROR"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// MessageClientDisconnect is the RUN_ERROR message of a cancelled run.
const MessageClientDisconnect = "client disconnect"

// AgentError is an error with an explicit code. Agents return it to control
// the RUN_ERROR the client sees.
type AgentError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewAgentError returns an AgentError.
func NewAgentError(code ErrorCode, message string, err error) *AgentError {
	return &AgentError{Code: code, Message: message, Err: err}
}

// NewCustomError returns an AgentError with CodeCustom.
func NewCustomError(message string) *AgentError {
	return &AgentError{Code: CodeCustom, Message: message}
}

func (e *AgentError) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// CodeOf buckets err into an ErrorCode.
func CodeOf(err error) ErrorCode {
	var (
		ae *AgentError
		pe *verify.ProtocolError
		se *state.Error
		pa *patch.Error
		ee *encoding.Error
		tl *encoding.TooLargeError
		de *event.DecodeError
		ne net.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeAborted
	case errors.As(err, &pe), errors.Is(err, middleware.ErrOrphanChunk):
		return CodeProtocolViolation
	case errors.As(err, &se), errors.As(err, &pa):
		return CodeStateError
	case errors.As(err, &ee), errors.As(err, &tl), errors.As(err, &de):
		return CodeEncodingError
	case errors.As(err, &ne), errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		return CodeTransportError
	}
	return CodeInternal
}

// RunError converts err into the RUN_ERROR event sent to the client.
func RunError(err error, opts ...event.Option) *event.RunErrorEvent {
	code := CodeOf(err)
	message := err.Error()
	var ae *AgentError
	switch {
	case errors.As(err, &ae) && ae.Message != "":
		message = ae.Message
	case code == CodeAborted:
		message = MessageClientDisconnect
	}
	return event.NewRunErrorEvent(message, string(code), opts...)
}
