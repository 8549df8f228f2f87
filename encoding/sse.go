//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package encoding

import (
	"bytes"

	"trpc.group/trpc-go/trpc-agui-go/event"
)

var (
	dataPrefix = []byte("data: ")
	frameEnd   = []byte("\n\n")
)

// SSEEncoder frames events as `data: <json>\n\n`.
type SSEEncoder struct{}

// NewSSEEncoder returns an SSE encoder.
func NewSSEEncoder() *SSEEncoder {
	return &SSEEncoder{}
}

// ContentType implements Encoder.
func (*SSEEncoder) ContentType() string {
	return ContentTypeSSE
}

// Encode implements Encoder.
func (*SSEEncoder) Encode(e event.Event) ([]byte, error) {
	payload, err := event.ToJSON(e)
	if err != nil {
		return nil, &Error{Op: "encode", Err: err}
	}
	if len(payload) > MaxEventSize {
		return nil, &TooLargeError{Type: e.Type(), Size: len(payload), Limit: MaxEventSize}
	}
	return FrameSSE(payload), nil
}

// FrameSSE wraps payload in an SSE data frame. Every line of a multi-line
// payload gets its own data field.
func FrameSSE(payload []byte) []byte {
	if bytes.IndexByte(payload, '\n') < 0 {
		out := make([]byte, 0, len(dataPrefix)+len(payload)+len(frameEnd))
		out = append(out, dataPrefix...)
		out = append(out, payload...)
		return append(out, frameEnd...)
	}
	lines := bytes.Split(payload, []byte("\n"))
	var buf bytes.Buffer
	buf.Grow(len(payload) + len(lines)*(len(dataPrefix)+1) + 1)
	for _, line := range lines {
		buf.Write(dataPrefix)
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
