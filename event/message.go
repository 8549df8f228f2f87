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
)

// ErrEmptyDelta is returned when a TEXT_MESSAGE_CONTENT delta is empty.
var ErrEmptyDelta = errors.New("event: TEXT_MESSAGE_CONTENT delta must not be empty")

// TextMessageStartEvent opens a streamed text message.
type TextMessageStartEvent struct {
	BaseEvent
	MessageID model.MessageID `json:"messageId"`
	Role      model.Role      `json:"role"`
}

// NewTextMessageStartEvent creates a TEXT_MESSAGE_START event with the assistant role.
func NewTextMessageStartEvent(messageID model.MessageID, opts ...Option) *TextMessageStartEvent {
	return &TextMessageStartEvent{
		BaseEvent: newBase(TypeTextMessageStart, opts),
		MessageID: messageID,
		Role:      model.RoleAssistant,
	}
}

// Type implements Event.
func (e *TextMessageStartEvent) Type() EventType { return TypeTextMessageStart }

// Validate implements Event.
func (e *TextMessageStartEvent) Validate() error {
	if e.MessageID.IsZero() {
		return errors.New("event: TEXT_MESSAGE_START messageId is required")
	}
	if e.Role != "" && !e.Role.IsValid() {
		return fmt.Errorf("event: TEXT_MESSAGE_START invalid role %q", e.Role)
	}
	return nil
}

// TextMessageContentEvent appends a delta to a streamed text message.
type TextMessageContentEvent struct {
	BaseEvent
	MessageID model.MessageID `json:"messageId"`
	Delta     string          `json:"delta"`
}

// NewTextMessageContentEvent creates a TEXT_MESSAGE_CONTENT event. An empty
// delta is rejected.
func NewTextMessageContentEvent(messageID model.MessageID, delta string, opts ...Option) (*TextMessageContentEvent, error) {
	if delta == "" {
		return nil, ErrEmptyDelta
	}
	return &TextMessageContentEvent{
		BaseEvent: newBase(TypeTextMessageContent, opts),
		MessageID: messageID,
		Delta:     delta,
	}, nil
}

// Type implements Event.
func (e *TextMessageContentEvent) Type() EventType { return TypeTextMessageContent }

// Validate implements Event.
func (e *TextMessageContentEvent) Validate() error {
	if e.MessageID.IsZero() {
		return errors.New("event: TEXT_MESSAGE_CONTENT messageId is required")
	}
	if e.Delta == "" {
		return ErrEmptyDelta
	}
	return nil
}

// TextMessageEndEvent closes a streamed text message.
type TextMessageEndEvent struct {
	BaseEvent
	MessageID model.MessageID `json:"messageId"`
}

// NewTextMessageEndEvent creates a TEXT_MESSAGE_END event.
func NewTextMessageEndEvent(messageID model.MessageID, opts ...Option) *TextMessageEndEvent {
	return &TextMessageEndEvent{BaseEvent: newBase(TypeTextMessageEnd, opts), MessageID: messageID}
}

// Type implements Event.
func (e *TextMessageEndEvent) Type() EventType { return TypeTextMessageEnd }

// Validate implements Event.
func (e *TextMessageEndEvent) Validate() error {
	if e.MessageID.IsZero() {
		return errors.New("event: TEXT_MESSAGE_END messageId is required")
	}
	return nil
}

// TextMessageChunkEvent is a self-contained piece of a text message. All
// fields are optional.
type TextMessageChunkEvent struct {
	BaseEvent
	MessageID *model.MessageID `json:"messageId,omitempty"`
	Role      model.Role       `json:"role,omitempty"`
	Delta     string           `json:"delta,omitempty"`
}

// NewTextMessageChunkEvent creates a TEXT_MESSAGE_CHUNK event. messageID may be nil.
func NewTextMessageChunkEvent(messageID *model.MessageID, delta string, opts ...Option) *TextMessageChunkEvent {
	return &TextMessageChunkEvent{BaseEvent: newBase(TypeTextMessageChunk, opts), MessageID: messageID, Delta: delta}
}

// Type implements Event.
func (e *TextMessageChunkEvent) Type() EventType { return TypeTextMessageChunk }

// Validate implements Event.
func (e *TextMessageChunkEvent) Validate() error {
	if e.Role != "" && !e.Role.IsValid() {
		return fmt.Errorf("event: TEXT_MESSAGE_CHUNK invalid role %q", e.Role)
	}
	return nil
}

// ThinkingStartEvent opens a thinking section.
type ThinkingStartEvent struct {
	BaseEvent
	Title string `json:"title,omitempty"`
}

// NewThinkingStartEvent creates a THINKING_START event. title may be empty.
func NewThinkingStartEvent(title string, opts ...Option) *ThinkingStartEvent {
	return &ThinkingStartEvent{BaseEvent: newBase(TypeThinkingStart, opts), Title: title}
}

// Type implements Event.
func (e *ThinkingStartEvent) Type() EventType { return TypeThinkingStart }

// Validate implements Event.
func (e *ThinkingStartEvent) Validate() error { return nil }

// ThinkingEndEvent closes a thinking section.
type ThinkingEndEvent struct {
	BaseEvent
}

// NewThinkingEndEvent creates a THINKING_END event.
func NewThinkingEndEvent(opts ...Option) *ThinkingEndEvent {
	return &ThinkingEndEvent{BaseEvent: newBase(TypeThinkingEnd, opts)}
}

// Type implements Event.
func (e *ThinkingEndEvent) Type() EventType { return TypeThinkingEnd }

// Validate implements Event.
func (e *ThinkingEndEvent) Validate() error { return nil }

// ThinkingTextMessageStartEvent opens a thinking text message.
type ThinkingTextMessageStartEvent struct {
	BaseEvent
}

// NewThinkingTextMessageStartEvent creates a THINKING_TEXT_MESSAGE_START event.
func NewThinkingTextMessageStartEvent(opts ...Option) *ThinkingTextMessageStartEvent {
	return &ThinkingTextMessageStartEvent{BaseEvent: newBase(TypeThinkingTextMessageStart, opts)}
}

// Type implements Event.
func (e *ThinkingTextMessageStartEvent) Type() EventType { return TypeThinkingTextMessageStart }

// Validate implements Event.
func (e *ThinkingTextMessageStartEvent) Validate() error { return nil }

// ThinkingTextMessageContentEvent carries thinking text.
type ThinkingTextMessageContentEvent struct {
	BaseEvent
	Delta string `json:"delta"`
}

// NewThinkingTextMessageContentEvent creates a THINKING_TEXT_MESSAGE_CONTENT event.
func NewThinkingTextMessageContentEvent(delta string, opts ...Option) *ThinkingTextMessageContentEvent {
	return &ThinkingTextMessageContentEvent{BaseEvent: newBase(TypeThinkingTextMessageContent, opts), Delta: delta}
}

// Type implements Event.
func (e *ThinkingTextMessageContentEvent) Type() EventType { return TypeThinkingTextMessageContent }

// Validate implements Event.
func (e *ThinkingTextMessageContentEvent) Validate() error { return nil }

// ThinkingTextMessageEndEvent closes a thinking text message.
type ThinkingTextMessageEndEvent struct {
	BaseEvent
}

// NewThinkingTextMessageEndEvent creates a THINKING_TEXT_MESSAGE_END event.
func NewThinkingTextMessageEndEvent(opts ...Option) *ThinkingTextMessageEndEvent {
	return &ThinkingTextMessageEndEvent{BaseEvent: newBase(TypeThinkingTextMessageEnd, opts)}
}

// Type implements Event.
func (e *ThinkingTextMessageEndEvent) Type() EventType { return TypeThinkingTextMessageEnd }

// Validate implements Event.
func (e *ThinkingTextMessageEndEvent) Validate() error { return nil }
