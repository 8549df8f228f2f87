//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package model defines the AG-UI data model: identifiers, messages, tools and run input.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleDeveloper Role = "developer"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleDeveloper, RoleSystem, RoleAssistant, RoleUser, RoleTool:
		return true
	default:
		return false
	}
}

// FunctionCall is the function invoked by a tool call.
// Arguments is accumulated as raw JSON text and only parsed on demand.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a tool invocation requested by the assistant.
type ToolCall struct {
	ID       ToolCallID   `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// ToolCallTypeFunction is the only tool call type defined by the protocol.
const ToolCallTypeFunction = "function"

// NewToolCall creates a function tool call with empty arguments.
func NewToolCall(id ToolCallID, name string) ToolCall {
	return ToolCall{
		ID:       id,
		Type:     ToolCallTypeFunction,
		Function: FunctionCall{Name: name},
	}
}

// Message is a conversation message. The Role selects which fields are meaningful:
//   - developer, system, user: Content is required.
//   - assistant: Content and ToolCalls are optional.
//   - tool: Content and ToolCallID are required, Error is optional.
type Message struct {
	ID         MessageID
	Role       Role
	Content    *string
	Name       *string
	ToolCalls  []ToolCall
	ToolCallID ToolCallID
	Error      *string
}

// NewDeveloperMessage creates a developer message.
func NewDeveloperMessage(id MessageID, content string) Message {
	return Message{ID: id, Role: RoleDeveloper, Content: &content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(id MessageID, content string) Message {
	return Message{ID: id, Role: RoleSystem, Content: &content}
}

// NewUserMessage creates a user message.
func NewUserMessage(id MessageID, content string) Message {
	return Message{ID: id, Role: RoleUser, Content: &content}
}

// NewAssistantMessage creates an assistant message with text content.
func NewAssistantMessage(id MessageID, content string) Message {
	return Message{ID: id, Role: RoleAssistant, Content: &content}
}

// NewToolMessage creates a tool result message.
func NewToolMessage(id MessageID, toolCallID ToolCallID, content string) Message {
	return Message{ID: id, Role: RoleTool, Content: &content, ToolCallID: toolCallID}
}

// Text returns the content and whether it is present.
func (m *Message) Text() (string, bool) {
	if m.Content == nil {
		return "", false
	}
	return *m.Content, true
}

// ContentMut returns a pointer to the content, initializing it to the empty
// string when absent.
func (m *Message) ContentMut() *string {
	if m.Content == nil {
		empty := ""
		m.Content = &empty
	}
	return m.Content
}

// AppendContent appends delta to the content.
func (m *Message) AppendContent(delta string) {
	c := m.ContentMut()
	*c += delta
}

// ToolCallsMut returns the tool call slice of an assistant message,
// initializing it when absent. It returns nil for any other role.
func (m *Message) ToolCallsMut() *[]ToolCall {
	if m.Role != RoleAssistant {
		return nil
	}
	if m.ToolCalls == nil {
		m.ToolCalls = []ToolCall{}
	}
	return &m.ToolCalls
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	c := m
	if m.Content != nil {
		v := *m.Content
		c.Content = &v
	}
	if m.Name != nil {
		v := *m.Name
		c.Name = &v
	}
	if m.Error != nil {
		v := *m.Error
		c.Error = &v
	}
	if m.ToolCalls != nil {
		c.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(c.ToolCalls, m.ToolCalls)
	}
	return c
}

// CloneMessages deep copies a message list. A nil list stays nil.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}

// Validate checks the role specific required fields.
func (m *Message) Validate() error {
	if m.ID.IsZero() {
		return errors.New("model: message id is required")
	}
	switch m.Role {
	case RoleDeveloper, RoleSystem, RoleUser:
		if m.Content == nil {
			return fmt.Errorf("model: %s message requires content", m.Role)
		}
	case RoleAssistant:
	case RoleTool:
		if m.Content == nil {
			return errors.New("model: tool message requires content")
		}
		if m.ToolCallID == "" {
			return errors.New("model: tool message requires toolCallId")
		}
	default:
		return fmt.Errorf("model: unknown message role %q", m.Role)
	}
	return nil
}

// wireMessage is the JSON shape shared by all message variants.
type wireMessage struct {
	ID         MessageID  `json:"id"`
	Role       Role       `json:"role"`
	Content    *string    `json:"content,omitempty"`
	Name       *string    `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID ToolCallID `json:"toolCallId,omitempty"`
	Error      *string    `json:"error,omitempty"`
}

// MarshalJSON emits only the fields that belong to the message role.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{ID: m.ID, Role: m.Role, Content: m.Content, Name: m.Name}
	switch m.Role {
	case RoleDeveloper, RoleSystem, RoleUser:
		if w.Content == nil {
			empty := ""
			w.Content = &empty
		}
	case RoleAssistant:
		w.ToolCalls = m.ToolCalls
	case RoleTool:
		if w.Content == nil {
			empty := ""
			w.Content = &empty
		}
		w.ToolCallID = m.ToolCallID
		w.Error = m.Error
	default:
		return nil, fmt.Errorf("model: unknown message role %q", m.Role)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a message and checks the role specific fields.
func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	msg := Message{
		ID:         w.ID,
		Role:       w.Role,
		Content:    w.Content,
		Name:       w.Name,
		ToolCalls:  w.ToolCalls,
		ToolCallID: w.ToolCallID,
		Error:      w.Error,
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	*m = msg
	return nil
}
