//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"encoding/json"
	"errors"
)

// Tool describes a tool the frontend makes available to the agent.
type Tool struct {
	// Name is the tool name the agent calls.
	Name string `json:"name"`
	// Description tells the agent what the tool does.
	Description string `json:"description"`
	// Parameters is the JSON schema of the tool arguments.
	Parameters any `json:"parameters,omitempty"`
}

// Context is a piece of application context shared with the agent.
type Context struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// RunAgentInput represents the parameters for an AG-UI run request.
type RunAgentInput struct {
	// ThreadID is the ID of the conversation thread.
	ThreadID ThreadID `json:"threadId"`
	// RunID is the ID of the current run.
	RunID RunID `json:"runId"`
	// State is the agent state, any JSON value.
	State any `json:"state"`
	// Messages is the list of messages in the conversation.
	Messages []Message `json:"messages"`
	// Tools are the tools available to the agent.
	Tools []Tool `json:"tools"`
	// Context is the application context.
	Context []Context `json:"context"`
	// ForwardedProps is the custom properties forwarded to the agent.
	ForwardedProps any `json:"forwardedProps"`
}

// MarshalJSON always emits list fields as arrays, never null.
func (in RunAgentInput) MarshalJSON() ([]byte, error) {
	type plain RunAgentInput
	p := plain(in)
	if p.Messages == nil {
		p.Messages = []Message{}
	}
	if p.Tools == nil {
		p.Tools = []Tool{}
	}
	if p.Context == nil {
		p.Context = []Context{}
	}
	return json.Marshal(p)
}

// Validate checks the fields every run request must carry.
func (in *RunAgentInput) Validate() error {
	if in.ThreadID.IsZero() {
		return errors.New("model: threadId is required")
	}
	if in.RunID.IsZero() {
		return errors.New("model: runId is required")
	}
	return nil
}

// LastUserMessage returns the most recent user message, if any.
func (in *RunAgentInput) LastUserMessage() (Message, bool) {
	for i := len(in.Messages) - 1; i >= 0; i-- {
		if in.Messages[i].Role == RoleUser {
			return in.Messages[i], true
		}
	}
	return Message{}, false
}
