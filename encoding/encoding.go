//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package encoding frames AG-UI events for the wire. Server-Sent Events with
// JSON payloads is the default format; a length-prefixed protobuf format can
// be negotiated through the Accept header.
package encoding

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-agui-go/event"
)

// Content types.
const (
	ContentTypeSSE      = "text/event-stream"
	ContentTypeProtobuf = "application/x-ag-ui-proto"
)

// MaxEventSize is the largest serialized event payload that will be emitted.
const MaxEventSize = 1 << 20

// ErrEventTooLarge is matched by errors for events above MaxEventSize.
var ErrEventTooLarge = errors.New("event too large")

// TooLargeError reports an oversized event.
type TooLargeError struct {
	Type  event.EventType
	Size  int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("encoding: %s event is %d bytes, limit is %d", e.Type, e.Size, e.Limit)
}

// Is matches ErrEventTooLarge.
func (e *TooLargeError) Is(target error) bool {
	return target == ErrEventTooLarge
}

// Error reports a failure to encode or decode an event.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "encoding: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Encoder turns events into bytes of one wire format.
type Encoder interface {
	// ContentType returns the response Content-Type.
	ContentType() string
	// Encode encodes a single event.
	Encode(e event.Event) ([]byte, error)
}

// EncodeBatch concatenates the encodings of events.
func EncodeBatch(enc Encoder, events []event.Event) ([]byte, error) {
	var out []byte
	for _, e := range events {
		b, err := enc.Encode(e)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

type negotiateOptions struct {
	protobuf bool
}

// NegotiateOption configures Negotiate.
type NegotiateOption func(*negotiateOptions)

// WithProtobuf enables the protobuf format.
func WithProtobuf(enabled bool) NegotiateOption {
	return func(o *negotiateOptions) {
		o.protobuf = enabled
	}
}

// Negotiate picks an encoder for an Accept header value. SSE is chosen for
// empty, wildcard and unrecognized values, and whenever protobuf is not
// enabled.
func Negotiate(accept string, opts ...NegotiateOption) Encoder {
	o := negotiateOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.protobuf && preferred(accept) == ContentTypeProtobuf {
		return NewProtoEncoder()
	}
	return NewSSEEncoder()
}

// preferred returns the supported media type with the highest quality.
// Entries with q=0 are not acceptable and never win.
func preferred(accept string) string {
	best, bestQ := "", 0.0
	for _, part := range strings.Split(accept, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mt != ContentTypeSSE && mt != ContentTypeProtobuf {
			continue
		}
		q := 1.0
		if s, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				q = v
			}
		}
		if q > bestQ && q <= 1 {
			best, bestQ = mt, q
		}
	}
	return best
}
