//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package middleware provides composable event stream transformers.
package middleware

import (
	"context"

	"trpc.group/trpc-go/trpc-agui-go/event"
)

// Transformer maps an event stream to another event stream. A Transformer may
// be shared between goroutines; any per-stream state must be created inside
// Transform.
type Transformer interface {
	Transform(ctx context.Context, in event.Stream) event.Stream
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, in event.Stream) event.Stream

// Transform implements Transformer.
func (f TransformerFunc) Transform(ctx context.Context, in event.Stream) event.Stream {
	return f(ctx, in)
}

// Chain composes transformers. The first transformer sees the source stream.
func Chain(ts ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, in event.Stream) event.Stream {
		return Apply(ctx, in, ts...)
	})
}

// Apply runs in through ts in order.
func Apply(ctx context.Context, in event.Stream, ts ...Transformer) event.Stream {
	out := in
	for _, t := range ts {
		if t != nil {
			out = t.Transform(ctx, out)
		}
	}
	return out
}

// Filter returns a transformer that forwards only the events keep accepts.
// Errors are always forwarded.
func Filter(keep func(event.Event) bool) Transformer {
	return Map(func(e event.Event) ([]event.Event, error) {
		if keep(e) {
			return []event.Event{e}, nil
		}
		return nil, nil
	})
}

// Map returns a transformer that replaces every event with the events f
// returns. An error from f terminates the stream.
func Map(f func(event.Event) ([]event.Event, error)) Transformer {
	return TransformerFunc(func(ctx context.Context, in event.Stream) event.Stream {
		return Pipe(ctx, in, func(e event.Event, emit func(event.Event) bool) error {
			out, err := f(e)
			if err != nil {
				return err
			}
			for _, o := range out {
				if !emit(o) {
					return nil
				}
			}
			return nil
		}, nil)
	})
}

// Pipe runs a per-event step over in on its own goroutine. step may emit any
// number of events; a non-nil error is sent downstream and ends the stream.
// flush, if set, runs once after in is exhausted without error.
func Pipe(
	ctx context.Context,
	in event.Stream,
	step func(e event.Event, emit func(event.Event) bool) error,
	flush func(emit func(event.Event) bool) error,
) event.Stream {
	out := make(chan event.StreamItem)
	go func() {
		defer close(out)
		emit := func(e event.Event) bool {
			return event.Send(ctx, out, event.StreamItem{Event: e})
		}
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					if flush != nil {
						if err := flush(emit); err != nil {
							event.Send(ctx, out, event.StreamItem{Err: err})
						}
					}
					return
				}
				if item.Err != nil {
					event.Send(ctx, out, item)
					return
				}
				if err := step(item.Event, emit); err != nil {
					event.Send(ctx, out, event.StreamItem{Err: err})
					return
				}
			}
		}
	}()
	return out
}
