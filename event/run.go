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

	"trpc.group/trpc-go/trpc-agui-go/model"
)

// RunStartedEvent opens a run.
type RunStartedEvent struct {
	BaseEvent
	ThreadID model.ThreadID `json:"threadId"`
	RunID    model.RunID    `json:"runId"`
}

// NewRunStartedEvent creates a RUN_STARTED event.
func NewRunStartedEvent(threadID model.ThreadID, runID model.RunID, opts ...Option) *RunStartedEvent {
	return &RunStartedEvent{BaseEvent: newBase(TypeRunStarted, opts), ThreadID: threadID, RunID: runID}
}

// Type implements Event.
func (e *RunStartedEvent) Type() EventType { return TypeRunStarted }

// Validate implements Event.
func (e *RunStartedEvent) Validate() error {
	return validateRunIDs(e.ThreadID, e.RunID)
}

// RunFinishedEvent closes a run successfully.
type RunFinishedEvent struct {
	BaseEvent
	ThreadID model.ThreadID `json:"threadId"`
	RunID    model.RunID    `json:"runId"`
	// Result is the optional run result.
	Result any `json:"result,omitempty"`
}

// NewRunFinishedEvent creates a RUN_FINISHED event.
func NewRunFinishedEvent(threadID model.ThreadID, runID model.RunID, result any, opts ...Option) *RunFinishedEvent {
	return &RunFinishedEvent{
		BaseEvent: newBase(TypeRunFinished, opts),
		ThreadID:  threadID,
		RunID:     runID,
		Result:    result,
	}
}

// Type implements Event.
func (e *RunFinishedEvent) Type() EventType { return TypeRunFinished }

// Validate implements Event.
func (e *RunFinishedEvent) Validate() error {
	return validateRunIDs(e.ThreadID, e.RunID)
}

// RunErrorEvent terminates a run with an error.
type RunErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewRunErrorEvent creates a RUN_ERROR event. code may be empty.
func NewRunErrorEvent(message, code string, opts ...Option) *RunErrorEvent {
	return &RunErrorEvent{BaseEvent: newBase(TypeRunError, opts), Message: message, Code: code}
}

// Type implements Event.
func (e *RunErrorEvent) Type() EventType { return TypeRunError }

// Validate implements Event.
func (e *RunErrorEvent) Validate() error {
	if e.Message == "" {
		return errors.New("event: RUN_ERROR message is required")
	}
	return nil
}

// StepStartedEvent opens a named step.
type StepStartedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepStartedEvent creates a STEP_STARTED event.
func NewStepStartedEvent(stepName string, opts ...Option) *StepStartedEvent {
	return &StepStartedEvent{BaseEvent: newBase(TypeStepStarted, opts), StepName: stepName}
}

// Type implements Event.
func (e *StepStartedEvent) Type() EventType { return TypeStepStarted }

// Validate implements Event.
func (e *StepStartedEvent) Validate() error {
	if e.StepName == "" {
		return errors.New("event: STEP_STARTED stepName is required")
	}
	return nil
}

// StepFinishedEvent closes a named step.
type StepFinishedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepFinishedEvent creates a STEP_FINISHED event.
func NewStepFinishedEvent(stepName string, opts ...Option) *StepFinishedEvent {
	return &StepFinishedEvent{BaseEvent: newBase(TypeStepFinished, opts), StepName: stepName}
}

// Type implements Event.
func (e *StepFinishedEvent) Type() EventType { return TypeStepFinished }

// Validate implements Event.
func (e *StepFinishedEvent) Validate() error {
	if e.StepName == "" {
		return errors.New("event: STEP_FINISHED stepName is required")
	}
	return nil
}

func validateRunIDs(threadID model.ThreadID, runID model.RunID) error {
	if threadID.IsZero() {
		return errors.New("event: threadId is required")
	}
	if runID.IsZero() {
		return errors.New("event: runId is required")
	}
	return nil
}
