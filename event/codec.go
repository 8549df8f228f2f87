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
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"trpc.group/trpc-go/trpc-agui-go/patch"
)

var factories = map[EventType]func() Event{
	TypeTextMessageStart:           func() Event { return &TextMessageStartEvent{} },
	TypeTextMessageContent:         func() Event { return &TextMessageContentEvent{} },
	TypeTextMessageEnd:             func() Event { return &TextMessageEndEvent{} },
	TypeTextMessageChunk:           func() Event { return &TextMessageChunkEvent{} },
	TypeThinkingTextMessageStart:   func() Event { return &ThinkingTextMessageStartEvent{} },
	TypeThinkingTextMessageContent: func() Event { return &ThinkingTextMessageContentEvent{} },
	TypeThinkingTextMessageEnd:     func() Event { return &ThinkingTextMessageEndEvent{} },
	TypeToolCallStart:              func() Event { return &ToolCallStartEvent{} },
	TypeToolCallArgs:               func() Event { return &ToolCallArgsEvent{} },
	TypeToolCallEnd:                func() Event { return &ToolCallEndEvent{} },
	TypeToolCallChunk:              func() Event { return &ToolCallChunkEvent{} },
	TypeToolCallResult:             func() Event { return &ToolCallResultEvent{} },
	TypeThinkingStart:              func() Event { return &ThinkingStartEvent{} },
	TypeThinkingEnd:                func() Event { return &ThinkingEndEvent{} },
	TypeStateSnapshot:              func() Event { return &StateSnapshotEvent{} },
	TypeStateDelta:                 func() Event { return &StateDeltaEvent{} },
	TypeMessagesSnapshot:           func() Event { return &MessagesSnapshotEvent{} },
	TypeRaw:                        func() Event { return &RawEvent{} },
	TypeCustom:                     func() Event { return &CustomEvent{} },
	TypeRunStarted:                 func() Event { return &RunStartedEvent{} },
	TypeRunFinished:                func() Event { return &RunFinishedEvent{} },
	TypeRunError:                   func() Event { return &RunErrorEvent{} },
	TypeStepStarted:                func() Event { return &StepStartedEvent{} },
	TypeStepFinished:               func() Event { return &StepFinishedEvent{} },
}

// New returns an empty event of type t.
func New(t EventType) (Event, error) {
	f, ok := factories[t]
	if !ok {
		return nil, &DecodeError{Type: t, Err: fmt.Errorf("unknown event type %q", t)}
	}
	e := f()
	e.Base().EventType = t
	return e, nil
}

// DecodeError reports an event that could not be decoded.
type DecodeError struct {
	Type EventType
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return "event: decode: " + e.Err.Error()
	}
	return "event: decode " + string(e.Type) + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FromJSON decodes a single event and validates it. JSON numbers inside
// free-form values are kept as json.Number.
func FromJSON(data []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if head.Type == "" {
		return nil, &DecodeError{Err: fmt.Errorf("missing type field")}
	}
	e, err := New(head.Type)
	if err != nil {
		return nil, err
	}
	if err := patch.Unmarshal(data, e); err != nil {
		return nil, &DecodeError{Type: head.Type, Err: err}
	}
	if err := e.Validate(); err != nil {
		return nil, &DecodeError{Type: head.Type, Err: err}
	}
	return e, nil
}

// ToJSON encodes an event. The type discriminator is always set from the
// variant; e itself is not modified.
func ToJSON(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("event: nil event")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	if e.Base().EventType == e.Type() {
		return b, nil
	}
	return sjson.SetBytes(b, "type", string(e.Type()))
}
