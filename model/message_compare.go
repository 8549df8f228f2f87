//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

package model

import "slices"

// MessagesEqual reports whether two Message values are semantically equal.
// Optional fields are compared by value, ids by their internal UUID.
func MessagesEqual(a, b Message) bool {
	if !a.ID.Equal(b.ID) {
		return false
	}
	if a.Role != b.Role {
		return false
	}
	if !equalPtr(a.Content, b.Content) {
		return false
	}
	if !equalPtr(a.Name, b.Name) {
		return false
	}
	if !equalPtr(a.Error, b.Error) {
		return false
	}
	if a.ToolCallID != b.ToolCallID {
		return false
	}
	return slices.Equal(a.ToolCalls, b.ToolCalls)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
