//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package verify checks that an event sequence follows the AG-UI protocol.
package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/model"
)

// ProtocolError reports an event that is illegal in the current protocol state.
type ProtocolError struct {
	// Type is the offending event type.
	Type event.EventType
	// Reason names the violated construct.
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation on %s: %s", e.Type, e.Reason)
}

// Verifier is the protocol state machine. It is not safe for concurrent use;
// each stream needs its own Verifier.
type Verifier struct {
	activeMessages  map[uuid.UUID]model.MessageID
	activeToolCalls map[model.ToolCallID]struct{}
	activeSteps     map[string]struct{}

	runStarted            bool
	runFinished           bool
	runError              bool
	firstEventReceived    bool
	activeThinking        bool
	activeThinkingMessage bool
}

// New returns a Verifier in its initial state.
func New() *Verifier {
	v := &Verifier{}
	v.Reset()
	return v
}

// Reset returns the verifier to its initial state.
func (v *Verifier) Reset() {
	v.resetRun()
	v.runStarted = false
	v.runFinished = false
	v.runError = false
	v.firstEventReceived = false
}

func (v *Verifier) resetRun() {
	v.activeMessages = make(map[uuid.UUID]model.MessageID)
	v.activeToolCalls = make(map[model.ToolCallID]struct{})
	v.activeSteps = make(map[string]struct{})
	v.activeThinking = false
	v.activeThinkingMessage = false
}

// RunActive reports whether a run has started and not yet ended.
func (v *Verifier) RunActive() bool {
	return v.runStarted && !v.runFinished && !v.runError
}

// Verify checks e against the current state and advances the state machine.
// On error the state is left unchanged.
func (v *Verifier) Verify(e event.Event) error {
	if e == nil {
		return &ProtocolError{Reason: "nil event"}
	}
	t := e.Type()
	fail := func(format string, args ...any) error {
		return &ProtocolError{Type: t, Reason: fmt.Sprintf(format, args...)}
	}

	if v.runError {
		return fail("run already errored, no further events are permitted")
	}
	if v.runFinished && t != event.TypeRunStarted && t != event.TypeRunError {
		return fail("run already finished, only RUN_STARTED or RUN_ERROR may follow")
	}
	if !v.firstEventReceived && t != event.TypeRunStarted && t != event.TypeRunError {
		return fail("first event must be RUN_STARTED or RUN_ERROR")
	}

	switch e := e.(type) {
	case *event.RunStartedEvent:
		if v.RunActive() {
			return fail("run already started")
		}
		if v.runFinished {
			v.resetRun()
			v.runFinished = false
		}
		v.runStarted = true

	case *event.RunFinishedEvent:
		if len(v.activeMessages) > 0 {
			return fail("text messages still active: %s", v.messageIDs())
		}
		if len(v.activeToolCalls) > 0 {
			return fail("tool calls still active: %s", v.toolCallIDs())
		}
		if len(v.activeSteps) > 0 {
			return fail("steps still active: %s", v.stepNames())
		}
		v.runFinished = true

	case *event.RunErrorEvent:
		v.runError = true

	case *event.TextMessageStartEvent:
		if _, ok := v.activeMessages[e.MessageID.UUID()]; ok {
			return fail("text message %s already active", e.MessageID)
		}
		v.activeMessages[e.MessageID.UUID()] = e.MessageID

	case *event.TextMessageContentEvent:
		if _, ok := v.activeMessages[e.MessageID.UUID()]; !ok {
			return fail("no active text message with id %s", e.MessageID)
		}

	case *event.TextMessageEndEvent:
		if _, ok := v.activeMessages[e.MessageID.UUID()]; !ok {
			return fail("no active text message with id %s", e.MessageID)
		}
		delete(v.activeMessages, e.MessageID.UUID())

	case *event.ToolCallStartEvent:
		if _, ok := v.activeToolCalls[e.ToolCallID]; ok {
			return fail("tool call %s already active", e.ToolCallID)
		}
		v.activeToolCalls[e.ToolCallID] = struct{}{}

	case *event.ToolCallArgsEvent:
		if _, ok := v.activeToolCalls[e.ToolCallID]; !ok {
			return fail("no active tool call with id %s", e.ToolCallID)
		}

	case *event.ToolCallEndEvent:
		if _, ok := v.activeToolCalls[e.ToolCallID]; !ok {
			return fail("no active tool call with id %s", e.ToolCallID)
		}
		delete(v.activeToolCalls, e.ToolCallID)

	case *event.StepStartedEvent:
		if _, ok := v.activeSteps[e.StepName]; ok {
			return fail("step %q already active", e.StepName)
		}
		v.activeSteps[e.StepName] = struct{}{}

	case *event.StepFinishedEvent:
		if _, ok := v.activeSteps[e.StepName]; !ok {
			return fail("no active step named %q", e.StepName)
		}
		delete(v.activeSteps, e.StepName)

	case *event.ThinkingStartEvent:
		if v.activeThinking {
			return fail("thinking already active")
		}
		v.activeThinking = true

	case *event.ThinkingEndEvent:
		if !v.activeThinking {
			return fail("no active thinking")
		}
		if v.activeThinkingMessage {
			return fail("thinking text message still active")
		}
		v.activeThinking = false

	case *event.ThinkingTextMessageStartEvent:
		if !v.activeThinking {
			return fail("no active thinking")
		}
		if v.activeThinkingMessage {
			return fail("thinking text message already active")
		}
		v.activeThinkingMessage = true

	case *event.ThinkingTextMessageContentEvent:
		if !v.activeThinking {
			return fail("no active thinking")
		}
		if !v.activeThinkingMessage {
			return fail("no active thinking text message")
		}

	case *event.ThinkingTextMessageEndEvent:
		if !v.activeThinking {
			return fail("no active thinking")
		}
		if !v.activeThinkingMessage {
			return fail("no active thinking text message")
		}
		v.activeThinkingMessage = false

	default:
		// Chunks, tool results, state, messages snapshots, raw and custom
		// events are valid anywhere inside a run.
	}

	v.firstEventReceived = true
	return nil
}

func (v *Verifier) messageIDs() string {
	ids := make([]string, 0, len(v.activeMessages))
	for _, id := range v.activeMessages {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}

func (v *Verifier) toolCallIDs() string {
	ids := make([]string, 0, len(v.activeToolCalls))
	for id := range v.activeToolCalls {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}

func (v *Verifier) stepNames() string {
	names := make([]string, 0, len(v.activeSteps))
	for n := range v.activeSteps {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Stream verifies every event of in. The first violation is delivered as a
// terminating error. Upstream errors pass through unchanged.
func Stream(ctx context.Context, in event.Stream) event.Stream {
	out := make(chan event.StreamItem)
	go func() {
		defer close(out)
		v := New()
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if item.Err == nil {
					if err := v.Verify(item.Event); err != nil {
						item = event.StreamItem{Err: err}
					}
				}
				if !event.Send(ctx, out, item) || item.Err != nil {
					return
				}
			}
		}
	}()
	return out
}

// Events verifies a complete sequence and returns the first violation.
func Events(events []event.Event) error {
	v := New()
	for _, e := range events {
		if err := v.Verify(e); err != nil {
			return err
		}
	}
	return nil
}
