//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package patch implements RFC 6902 JSON Patch documents as carried by
// STATE_DELTA events, together with diff and apply helpers.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/wI2L/jsondiff"
)

// Op is a JSON Patch operation name.
type Op string

// RFC 6902 operations.
const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpMove    Op = "move"
	OpCopy    Op = "copy"
	OpTest    Op = "test"
)

// IsValid reports whether o is one of the RFC 6902 operations.
func (o Op) IsValid() bool {
	switch o {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
		return true
	}
	return false
}

// Operation is a single JSON Patch operation.
type Operation struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Add returns an add operation.
func Add(path string, value any) Operation {
	return Operation{Op: OpAdd, Path: path, Value: value}
}

// Remove returns a remove operation.
func Remove(path string) Operation {
	return Operation{Op: OpRemove, Path: path}
}

// Replace returns a replace operation.
func Replace(path string, value any) Operation {
	return Operation{Op: OpReplace, Path: path, Value: value}
}

// Move returns a move operation.
func Move(from, path string) Operation {
	return Operation{Op: OpMove, From: from, Path: path}
}

// Copy returns a copy operation.
func Copy(from, path string) Operation {
	return Operation{Op: OpCopy, From: from, Path: path}
}

// Test returns a test operation.
func Test(path string, value any) Operation {
	return Operation{Op: OpTest, Path: path, Value: value}
}

// MarshalJSON keeps "value" for add, replace and test even when it is null.
func (o Operation) MarshalJSON() ([]byte, error) {
	switch o.Op {
	case OpAdd, OpReplace, OpTest:
		return json.Marshal(struct {
			Op    Op     `json:"op"`
			Path  string `json:"path"`
			Value any    `json:"value"`
		}{o.Op, o.Path, o.Value})
	case OpMove, OpCopy:
		return json.Marshal(struct {
			Op   Op     `json:"op"`
			From string `json:"from"`
			Path string `json:"path"`
		}{o.Op, o.From, o.Path})
	default:
		type plain Operation
		return json.Marshal(plain(o))
	}
}

// Validate checks that the operation is well formed.
func (o Operation) Validate() error {
	if !o.Op.IsValid() {
		return fmt.Errorf("patch: unknown op %q", o.Op)
	}
	return nil
}

// Patch is an ordered list of operations.
type Patch []Operation

// IsEmpty reports whether the patch has no operations.
func (p Patch) IsEmpty() bool {
	return len(p) == 0
}

// Validate checks every operation.
func (p Patch) Validate() error {
	for i, op := range p {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// Error reports a failure to diff or apply a patch.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "patch: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNotADocument is returned when a document is not valid JSON.
var ErrNotADocument = errors.New("document is not valid JSON")

// Apply applies p to the JSON document doc in order and returns the new document.
// doc is never modified.
func Apply(doc []byte, p Patch) ([]byte, error) {
	if !json.Valid(doc) {
		return nil, &Error{Op: "apply", Err: ErrNotADocument}
	}
	if len(p) == 0 {
		return append([]byte(nil), doc...), nil
	}
	if err := p.Validate(); err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	decoded, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	out, err := decoded.Apply(doc)
	if err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	return out, nil
}

// ApplyValue marshals v, applies p and decodes the result into a generic JSON
// value. Numbers are decoded as json.Number.
func ApplyValue(v any, p Patch) (any, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	out, err := Apply(doc, p)
	if err != nil {
		return nil, err
	}
	var res any
	if err := Unmarshal(out, &res); err != nil {
		return nil, &Error{Op: "apply", Err: err}
	}
	return res, nil
}

// Diff computes the patch turning the JSON document from into to.
func Diff(from, to []byte) (Patch, error) {
	d, err := jsondiff.CompareJSON(from, to)
	if err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	return convert(d)
}

// DiffValues marshals both values and diffs them.
func DiffValues(from, to any) (Patch, error) {
	a, err := json.Marshal(from)
	if err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	b, err := json.Marshal(to)
	if err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	return Diff(a, b)
}

func convert(d jsondiff.Patch) (Patch, error) {
	if len(d) == 0 {
		return Patch{}, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	var p Patch
	if err := Unmarshal(raw, &p); err != nil {
		return nil, &Error{Op: "diff", Err: err}
	}
	return p, nil
}

// Unmarshal decodes JSON preserving number precision.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
