//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package event

import (
	"context"
)

// StreamItem is one element of an event stream: either an event or a
// terminating error.
type StreamItem struct {
	Event Event
	Err   error
}

// Stream is an asynchronous, ordered sequence of events. A stream ends when
// the channel is closed or after the first item carrying an error.
type Stream <-chan StreamItem

// Send delivers item on ch unless ctx is done first.
func Send(ctx context.Context, ch chan<- StreamItem, item StreamItem) bool {
	select {
	case ch <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

// FromEvents returns a stream yielding events in order.
func FromEvents(ctx context.Context, events ...Event) Stream {
	ch := make(chan StreamItem)
	go func() {
		defer close(ch)
		for _, e := range events {
			if !Send(ctx, ch, StreamItem{Event: e}) {
				return
			}
		}
	}()
	return ch
}

// FromError returns a stream yielding only err.
func FromError(err error) Stream {
	ch := make(chan StreamItem, 1)
	ch <- StreamItem{Err: err}
	close(ch)
	return ch
}

// Collect drains s and returns its events, stopping at the first error.
func Collect(ctx context.Context, s Stream) ([]Event, error) {
	var out []Event
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case item, ok := <-s:
			if !ok {
				return out, nil
			}
			if item.Err != nil {
				return out, item.Err
			}
			out = append(out, item.Event)
		}
	}
}
