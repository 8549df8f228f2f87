//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"trpc.group/trpc-go/trpc-agui-go/encoding"
	"trpc.group/trpc-go/trpc-agui-go/event"
)

// Reader decodes a Server-Sent Events body into events. Only data fields
// are used; comments and the event, id and retry fields are ignored.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next event. It returns io.EOF when the body ends between
// frames. A final frame without its terminating blank line is still
// delivered.
func (r *Reader) Next() (event.Event, error) {
	data, err := r.frame()
	if err != nil {
		return nil, err
	}
	if len(data) > encoding.MaxEventSize {
		return nil, &encoding.TooLargeError{Size: len(data), Limit: encoding.MaxEventSize}
	}
	return event.FromJSON(data)
}

// frame collects the data lines of one frame joined by newlines.
func (r *Reader) frame() ([]byte, error) {
	var (
		data    bytes.Buffer
		hasData bool
	)
	for {
		line, err := r.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &encoding.Error{Op: "read frame", Err: err}
		}
		eof := err != nil
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if hasData {
				return data.Bytes(), nil
			}
			if eof {
				return nil, io.EOF
			}
			continue
		case strings.HasPrefix(line, ":"):
		default:
			if after, ok := strings.CutPrefix(line, "data:"); ok {
				if hasData {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimPrefix(after, " "))
				hasData = true
			}
		}
		if data.Len() > encoding.MaxEventSize {
			return nil, &encoding.TooLargeError{Size: data.Len(), Limit: encoding.MaxEventSize}
		}
		if eof {
			if hasData {
				return data.Bytes(), nil
			}
			return nil, io.EOF
		}
	}
}
