//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package event defines the AG-UI event model: a closed set of event variants
// discriminated by the wire "type" field.
package event

import (
	"time"
)

// EventType is the wire discriminator of an event.
type EventType string

// AG-UI event types.
const (
	TypeTextMessageStart           EventType = "TEXT_MESSAGE_START"
	TypeTextMessageContent         EventType = "TEXT_MESSAGE_CONTENT"
	TypeTextMessageEnd             EventType = "TEXT_MESSAGE_END"
	TypeTextMessageChunk           EventType = "TEXT_MESSAGE_CHUNK"
	TypeThinkingTextMessageStart   EventType = "THINKING_TEXT_MESSAGE_START"
	TypeThinkingTextMessageContent EventType = "THINKING_TEXT_MESSAGE_CONTENT"
	TypeThinkingTextMessageEnd     EventType = "THINKING_TEXT_MESSAGE_END"
	TypeToolCallStart              EventType = "TOOL_CALL_START"
	TypeToolCallArgs               EventType = "TOOL_CALL_ARGS"
	TypeToolCallEnd                EventType = "TOOL_CALL_END"
	TypeToolCallChunk              EventType = "TOOL_CALL_CHUNK"
	TypeToolCallResult             EventType = "TOOL_CALL_RESULT"
	TypeThinkingStart              EventType = "THINKING_START"
	TypeThinkingEnd                EventType = "THINKING_END"
	TypeStateSnapshot              EventType = "STATE_SNAPSHOT"
	TypeStateDelta                 EventType = "STATE_DELTA"
	TypeMessagesSnapshot           EventType = "MESSAGES_SNAPSHOT"
	TypeRaw                        EventType = "RAW"
	TypeCustom                     EventType = "CUSTOM"
	TypeRunStarted                 EventType = "RUN_STARTED"
	TypeRunFinished                EventType = "RUN_FINISHED"
	TypeRunError                   EventType = "RUN_ERROR"
	TypeStepStarted                EventType = "STEP_STARTED"
	TypeStepFinished               EventType = "STEP_FINISHED"
)

// Types lists every event type in declaration order.
var Types = []EventType{
	TypeTextMessageStart,
	TypeTextMessageContent,
	TypeTextMessageEnd,
	TypeTextMessageChunk,
	TypeThinkingTextMessageStart,
	TypeThinkingTextMessageContent,
	TypeThinkingTextMessageEnd,
	TypeToolCallStart,
	TypeToolCallArgs,
	TypeToolCallEnd,
	TypeToolCallChunk,
	TypeToolCallResult,
	TypeThinkingStart,
	TypeThinkingEnd,
	TypeStateSnapshot,
	TypeStateDelta,
	TypeMessagesSnapshot,
	TypeRaw,
	TypeCustom,
	TypeRunStarted,
	TypeRunFinished,
	TypeRunError,
	TypeStepStarted,
	TypeStepFinished,
}

// String returns the wire name.
func (t EventType) String() string {
	return string(t)
}

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	_, ok := factories[t]
	return ok
}

// Event is implemented by every AG-UI event variant.
type Event interface {
	// Type returns the wire discriminator.
	Type() EventType
	// Base returns the fields common to all events.
	Base() *BaseEvent
	// Validate checks the variant's required fields.
	Validate() error
}

// BaseEvent holds the fields shared by all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	// Timestamp is in seconds since the Unix epoch.
	Timestamp *float64 `json:"timestamp,omitempty"`
	// RawEvent is the upstream event this event was derived from.
	RawEvent any `json:"rawEvent,omitempty"`
}

// Base returns b itself.
func (b *BaseEvent) Base() *BaseEvent {
	return b
}

// Time converts the timestamp to a time.Time. The zero time is returned when unset.
func (b *BaseEvent) Time() time.Time {
	if b.Timestamp == nil {
		return time.Time{}
	}
	sec := *b.Timestamp
	whole := int64(sec)
	return time.Unix(whole, int64((sec-float64(whole))*float64(time.Second)))
}

// Option configures the base fields of a new event.
type Option func(*BaseEvent)

// WithTimestamp sets the timestamp in seconds since the epoch.
func WithTimestamp(seconds float64) Option {
	return func(b *BaseEvent) {
		b.Timestamp = &seconds
	}
}

// WithTime sets the timestamp from t.
func WithTime(t time.Time) Option {
	return WithTimestamp(float64(t.UnixNano()) / float64(time.Second))
}

// WithCurrentTime stamps the event with time.Now.
func WithCurrentTime() Option {
	return WithTimestamp(Now())
}

// WithRawEvent attaches the upstream event.
func WithRawEvent(raw any) Option {
	return func(b *BaseEvent) {
		b.RawEvent = raw
	}
}

func newBase(t EventType, opts []Option) BaseEvent {
	b := BaseEvent{EventType: t}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Now returns the current time in seconds since the epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
