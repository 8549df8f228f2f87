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
	"fmt"

	"github.com/google/uuid"
)

// coercionNamespace is the v5 namespace used to derive UUIDs from ids that are not UUIDs.
var coercionNamespace = uuid.NameSpaceOID

// idKind tags an ID so that ids of different kinds cannot be mixed.
type idKind interface {
	agent | thread | run | message
}

type (
	agent   struct{}
	thread  struct{}
	run     struct{}
	message struct{}
)

// ID is a UUID backed identifier. Upstream frameworks sometimes emit ids
// such as "lc_run--<uuid>"; those are accepted, mapped to a deterministic
// v5 UUID and remembered so that they serialize back unchanged.
type ID[K idKind] struct {
	uuid     uuid.UUID
	original string
	coerced  bool
}

// AgentID identifies an agent.
type AgentID = ID[agent]

// ThreadID identifies a conversation thread.
type ThreadID = ID[thread]

// RunID identifies a single run.
type RunID = ID[run]

// MessageID identifies a message.
type MessageID = ID[message]

// NewAgentID returns a random AgentID.
func NewAgentID() AgentID { return AgentID{uuid: uuid.New()} }

// NewThreadID returns a random ThreadID.
func NewThreadID() ThreadID { return ThreadID{uuid: uuid.New()} }

// NewRunID returns a random RunID.
func NewRunID() RunID { return RunID{uuid: uuid.New()} }

// NewMessageID returns a random MessageID.
func NewMessageID() MessageID { return MessageID{uuid: uuid.New()} }

// AgentIDFrom builds an AgentID from its wire form.
func AgentIDFrom(s string) AgentID { return idFrom[agent](s) }

// ThreadIDFrom builds a ThreadID from its wire form.
func ThreadIDFrom(s string) ThreadID { return idFrom[thread](s) }

// RunIDFrom builds a RunID from its wire form.
func RunIDFrom(s string) RunID { return idFrom[run](s) }

// MessageIDFrom builds a MessageID from its wire form.
func MessageIDFrom(s string) MessageID { return idFrom[message](s) }

// idFrom parses s as a UUID and falls back to coercion. The empty string
// yields a zero id that still serializes as "".
func idFrom[K idKind](s string) ID[K] {
	if s == "" {
		return ID[K]{coerced: true}
	}
	if u, err := uuid.Parse(s); err == nil {
		return ID[K]{uuid: u}
	}
	return ID[K]{
		uuid:     uuid.NewSHA1(coercionNamespace, []byte(s)),
		original: s,
		coerced:  true,
	}
}

// UUID returns the internal UUID. For coerced ids this is the derived v5 UUID.
func (id ID[K]) UUID() uuid.UUID {
	return id.uuid
}

// WasCoerced reports whether the id was built from a non UUID string.
func (id ID[K]) WasCoerced() bool {
	return id.coerced
}

// IsZero reports whether the id is unset or was built from "".
func (id ID[K]) IsZero() bool {
	return id.uuid == uuid.Nil
}

// Equal compares ids by their internal UUID.
func (id ID[K]) Equal(other ID[K]) bool {
	return id.uuid == other.uuid
}

// String returns the wire form: the original string when coerced, the canonical UUID otherwise.
func (id ID[K]) String() string {
	if id.coerced {
		return id.original
	}
	return id.uuid.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ID[K]) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID[K]) UnmarshalText(b []byte) error {
	*id = idFrom[K](string(b))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id ID[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID[K]) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("model: id must be a JSON string: %w", err)
	}
	*id = idFrom[K](s)
	return nil
}

// ToolCallID is a provider specific tool call identifier such as "call_xxxxxxxx".
type ToolCallID string

// String returns the id as a string.
func (id ToolCallID) String() string {
	return string(id)
}
