//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePartialArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"open object", "{", map[string]any{}},
		{"complete", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"open string value", `{"q":"hel`, map[string]any{"q": "hel"}},
		{"dangling colon", `{"q":`, map[string]any{"q": nil}},
		{"dangling comma", `{"a":1,`, map[string]any{"a": float64(1)}},
		{"open key", `{"a":1,"b`, map[string]any{"a": float64(1)}},
		{"open array", `{"xs":[1,2`, map[string]any{"xs": []any{float64(1), float64(2)}}},
		{"nested", `{"o":{"k":"v"`, map[string]any{"o": map[string]any{"k": "v"}}},
		{"partial literal", `{"a":1,"b":tr`, map[string]any{"a": float64(1)}},
		{"escape at end", `{"s":"a\`, map[string]any{"s": "a"}},
		{"not an object", `[1,2]`, map[string]any{}},
		{"garbage", `hello`, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePartialArgs(tt.in))
		})
	}
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, map[string]any{"city": "NYC"}, parseArgs(`{"city":"NYC"}`))
	assert.Equal(t, map[string]any{}, parseArgs(`{"city":`))
	assert.Equal(t, map[string]any{}, parseArgs(""))
	assert.Equal(t, map[string]any{}, parseArgs("null"))
}
