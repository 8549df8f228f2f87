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

// ToolCallStartEvent opens a tool call.
type ToolCallStartEvent struct {
	BaseEvent
	ToolCallID      model.ToolCallID `json:"toolCallId"`
	ToolCallName    string           `json:"toolCallName"`
	ParentMessageID *model.MessageID `json:"parentMessageId,omitempty"`
}

// NewToolCallStartEvent creates a TOOL_CALL_START event. parentMessageID may be nil.
func NewToolCallStartEvent(toolCallID model.ToolCallID, name string, parentMessageID *model.MessageID, opts ...Option) *ToolCallStartEvent {
	return &ToolCallStartEvent{
		BaseEvent:       newBase(TypeToolCallStart, opts),
		ToolCallID:      toolCallID,
		ToolCallName:    name,
		ParentMessageID: parentMessageID,
	}
}

// Type implements Event.
func (e *ToolCallStartEvent) Type() EventType { return TypeToolCallStart }

// Validate implements Event.
func (e *ToolCallStartEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("event: TOOL_CALL_START toolCallId is required")
	}
	if e.ToolCallName == "" {
		return errors.New("event: TOOL_CALL_START toolCallName is required")
	}
	return nil
}

// ToolCallArgsEvent appends a delta to a tool call's arguments.
type ToolCallArgsEvent struct {
	BaseEvent
	ToolCallID model.ToolCallID `json:"toolCallId"`
	Delta      string           `json:"delta"`
}

// NewToolCallArgsEvent creates a TOOL_CALL_ARGS event.
func NewToolCallArgsEvent(toolCallID model.ToolCallID, delta string, opts ...Option) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{BaseEvent: newBase(TypeToolCallArgs, opts), ToolCallID: toolCallID, Delta: delta}
}

// Type implements Event.
func (e *ToolCallArgsEvent) Type() EventType { return TypeToolCallArgs }

// Validate implements Event.
func (e *ToolCallArgsEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("event: TOOL_CALL_ARGS toolCallId is required")
	}
	return nil
}

// ToolCallEndEvent closes a tool call.
type ToolCallEndEvent struct {
	BaseEvent
	ToolCallID model.ToolCallID `json:"toolCallId"`
}

// NewToolCallEndEvent creates a TOOL_CALL_END event.
func NewToolCallEndEvent(toolCallID model.ToolCallID, opts ...Option) *ToolCallEndEvent {
	return &ToolCallEndEvent{BaseEvent: newBase(TypeToolCallEnd, opts), ToolCallID: toolCallID}
}

// Type implements Event.
func (e *ToolCallEndEvent) Type() EventType { return TypeToolCallEnd }

// Validate implements Event.
func (e *ToolCallEndEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("event: TOOL_CALL_END toolCallId is required")
	}
	return nil
}

// ToolCallChunkEvent is a self-contained piece of a tool call. All fields are
// optional.
type ToolCallChunkEvent struct {
	BaseEvent
	ToolCallID      model.ToolCallID `json:"toolCallId,omitempty"`
	ToolCallName    string           `json:"toolCallName,omitempty"`
	ParentMessageID *model.MessageID `json:"parentMessageId,omitempty"`
	Delta           string           `json:"delta,omitempty"`
}

// NewToolCallChunkEvent creates a TOOL_CALL_CHUNK event.
func NewToolCallChunkEvent(toolCallID model.ToolCallID, name, delta string, opts ...Option) *ToolCallChunkEvent {
	return &ToolCallChunkEvent{
		BaseEvent:    newBase(TypeToolCallChunk, opts),
		ToolCallID:   toolCallID,
		ToolCallName: name,
		Delta:        delta,
	}
}

// Type implements Event.
func (e *ToolCallChunkEvent) Type() EventType { return TypeToolCallChunk }

// Validate implements Event.
func (e *ToolCallChunkEvent) Validate() error { return nil }

// ToolCallResultEvent carries the output of an executed tool call.
type ToolCallResultEvent struct {
	BaseEvent
	MessageID  model.MessageID  `json:"messageId"`
	ToolCallID model.ToolCallID `json:"toolCallId"`
	Content    string           `json:"content"`
	Role       model.Role       `json:"role,omitempty"`
}

// NewToolCallResultEvent creates a TOOL_CALL_RESULT event.
func NewToolCallResultEvent(messageID model.MessageID, toolCallID model.ToolCallID, content string, opts ...Option) *ToolCallResultEvent {
	return &ToolCallResultEvent{
		BaseEvent:  newBase(TypeToolCallResult, opts),
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
	}
}

// Type implements Event.
func (e *ToolCallResultEvent) Type() EventType { return TypeToolCallResult }

// Validate implements Event.
func (e *ToolCallResultEvent) Validate() error {
	if e.MessageID.IsZero() {
		return errors.New("event: TOOL_CALL_RESULT messageId is required")
	}
	if e.ToolCallID == "" {
		return errors.New("event: TOOL_CALL_RESULT toolCallId is required")
	}
	if e.Role != "" && e.Role != model.RoleTool {
		return fmt.Errorf("event: TOOL_CALL_RESULT invalid role %q", e.Role)
	}
	return nil
}
