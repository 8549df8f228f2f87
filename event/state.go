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
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agui-go/model"
	"trpc.group/trpc-go/trpc-agui-go/patch"
)

// StateSnapshotEvent replaces the whole state.
type StateSnapshotEvent struct {
	BaseEvent
	Snapshot any `json:"snapshot"`
}

// NewStateSnapshotEvent creates a STATE_SNAPSHOT event.
func NewStateSnapshotEvent(snapshot any, opts ...Option) *StateSnapshotEvent {
	return &StateSnapshotEvent{BaseEvent: newBase(TypeStateSnapshot, opts), Snapshot: snapshot}
}

// Type implements Event.
func (e *StateSnapshotEvent) Type() EventType { return TypeStateSnapshot }

// Validate implements Event.
func (e *StateSnapshotEvent) Validate() error { return nil }

// StateDeltaEvent patches the state with an RFC 6902 patch.
type StateDeltaEvent struct {
	BaseEvent
	Delta patch.Patch `json:"delta"`
}

// NewStateDeltaEvent creates a STATE_DELTA event.
func NewStateDeltaEvent(delta patch.Patch, opts ...Option) *StateDeltaEvent {
	if delta == nil {
		delta = patch.Patch{}
	}
	return &StateDeltaEvent{BaseEvent: newBase(TypeStateDelta, opts), Delta: delta}
}

// Type implements Event.
func (e *StateDeltaEvent) Type() EventType { return TypeStateDelta }

// Validate implements Event.
func (e *StateDeltaEvent) Validate() error {
	if err := e.Delta.Validate(); err != nil {
		return fmt.Errorf("event: STATE_DELTA: %w", err)
	}
	return nil
}

// MessagesSnapshotEvent replaces the message list.
type MessagesSnapshotEvent struct {
	BaseEvent
	Messages []model.Message `json:"messages"`
}

// NewMessagesSnapshotEvent creates a MESSAGES_SNAPSHOT event.
func NewMessagesSnapshotEvent(messages []model.Message, opts ...Option) *MessagesSnapshotEvent {
	if messages == nil {
		messages = []model.Message{}
	}
	return &MessagesSnapshotEvent{BaseEvent: newBase(TypeMessagesSnapshot, opts), Messages: messages}
}

// Type implements Event.
func (e *MessagesSnapshotEvent) Type() EventType { return TypeMessagesSnapshot }

// Validate implements Event.
func (e *MessagesSnapshotEvent) Validate() error {
	for i := range e.Messages {
		if err := e.Messages[i].Validate(); err != nil {
			return fmt.Errorf("event: MESSAGES_SNAPSHOT message %d: %w", i, err)
		}
	}
	return nil
}

// RawEvent passes through an event from an external system.
type RawEvent struct {
	BaseEvent
	Event  any    `json:"event"`
	Source string `json:"source,omitempty"`
}

// NewRawEvent creates a RAW event.
func NewRawEvent(ev any, source string, opts ...Option) *RawEvent {
	return &RawEvent{BaseEvent: newBase(TypeRaw, opts), Event: ev, Source: source}
}

// Type implements Event.
func (e *RawEvent) Type() EventType { return TypeRaw }

// Validate implements Event.
func (e *RawEvent) Validate() error { return nil }

// CustomEvent is an application defined event.
type CustomEvent struct {
	BaseEvent
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// NewCustomEvent creates a CUSTOM event.
func NewCustomEvent(name string, value any, opts ...Option) *CustomEvent {
	return &CustomEvent{BaseEvent: newBase(TypeCustom, opts), Name: name, Value: value}
}

// Type implements Event.
func (e *CustomEvent) Type() EventType { return TypeCustom }

// Validate implements Event.
func (e *CustomEvent) Validate() error {
	if e.Name == "" {
		return errors.New("event: CUSTOM name is required")
	}
	return nil
}
