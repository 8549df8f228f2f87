//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package state keeps an agent's typed state behind a lock and turns every
// update into the JSON Patch that STATE_DELTA events carry.
package state

import (
	"encoding/json"
	"sync"

	"trpc.group/trpc-go/trpc-agui-go/event"
	"trpc.group/trpc-go/trpc-agui-go/patch"
)

// Error reports a state (de)serialization or patch failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "state: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type shared[S any] struct {
	mu    sync.RWMutex
	value S
}

// Manager guards a state value of type S. S must round-trip through
// encoding/json. Copies made with Clone share the same value.
type Manager[S any] struct {
	s *shared[S]
}

// New returns a manager holding initial.
func New[S any](initial S) *Manager[S] {
	return &Manager[S]{s: &shared[S]{value: initial}}
}

// Clone returns a manager sharing m's value.
func (m *Manager[S]) Clone() *Manager[S] {
	return &Manager[S]{s: m.s}
}

// Read runs f under the shared lock. f must not retain or modify the value.
func (m *Manager[S]) Read(f func(S)) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	f(m.s.value)
}

// Snapshot returns a deep copy of the value.
func (m *Manager[S]) Snapshot() (S, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return deepCopy(m.s.value)
}

// Update runs f with exclusive access and returns the patch from the value
// before f to the value after it.
func (m *Manager[S]) Update(f func(*S)) (patch.Patch, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.update(f)
}

// UpdateIf behaves like Update when pred returns true. Otherwise nothing is
// changed and ok is false.
func (m *Manager[S]) UpdateIf(pred func(S) bool, f func(*S)) (p patch.Patch, ok bool, err error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if !pred(m.s.value) {
		return nil, false, nil
	}
	p, err = m.update(f)
	return p, true, err
}

// Replace swaps in v and returns the resulting patch.
func (m *Manager[S]) Replace(v S) (patch.Patch, error) {
	return m.Update(func(s *S) { *s = v })
}

func (m *Manager[S]) update(f func(*S)) (patch.Patch, error) {
	before, err := json.Marshal(m.s.value)
	if err != nil {
		return nil, &Error{Op: "serialize", Err: err}
	}
	f(&m.s.value)
	after, err := json.Marshal(m.s.value)
	if err != nil {
		return nil, &Error{Op: "serialize", Err: err}
	}
	p, err := patch.Diff(before, after)
	if err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	return p, nil
}

// ApplyPatch applies p to the value. On failure the value is unchanged.
func (m *Manager[S]) ApplyPatch(p patch.Patch) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	next, err := Apply(m.s.value, p)
	if err != nil {
		return err
	}
	m.s.value = next
	return nil
}

// SnapshotEvent returns a STATE_SNAPSHOT event with a copy of the value.
func (m *Manager[S]) SnapshotEvent(opts ...event.Option) (*event.StateSnapshotEvent, error) {
	v, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	return event.NewStateSnapshotEvent(v, opts...), nil
}

// UpdateEvent runs Update and wraps the patch in a STATE_DELTA event. It
// returns nil when f changed nothing.
func (m *Manager[S]) UpdateEvent(f func(*S), opts ...event.Option) (*event.StateDeltaEvent, error) {
	p, err := m.Update(f)
	if err != nil || p.IsEmpty() {
		return nil, err
	}
	return event.NewStateDeltaEvent(p, opts...), nil
}

// Apply serializes v, applies p and deserializes the result into a new S.
func Apply[S any](v S, p patch.Patch) (S, error) {
	var zero S
	doc, err := json.Marshal(v)
	if err != nil {
		return zero, &Error{Op: "serialize", Err: err}
	}
	out, err := patch.Apply(doc, p)
	if err != nil {
		return zero, &Error{Op: "apply patch", Err: err}
	}
	return Decode[S](out)
}

// Convert moves a value into type S through its JSON form.
func Convert[S any](v any) (S, error) {
	var zero S
	doc, err := json.Marshal(v)
	if err != nil {
		return zero, &Error{Op: "serialize", Err: err}
	}
	return Decode[S](doc)
}

// Decode parses doc into a new S. Numbers in untyped values are kept as
// json.Number.
func Decode[S any](doc []byte) (S, error) {
	var out S
	if err := patch.Unmarshal(doc, &out); err != nil {
		var zero S
		return zero, &Error{Op: "deserialize", Err: err}
	}
	return out, nil
}

func deepCopy[S any](v S) (S, error) {
	return Convert[S](v)
}
