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
	"encoding/json"
	"strings"
)

// parseArgs parses complete tool call arguments. Malformed input yields an
// empty map.
func parseArgs(s string) map[string]any {
	if m, ok := parseObject(s); ok {
		return m
	}
	return map[string]any{}
}

// parsePartialArgs parses the arguments of a tool call that is still
// streaming. Open strings, arrays and objects are closed; when that is not
// enough the text is cut back to the previous element boundary.
func parsePartialArgs(s string) map[string]any {
	for cut := len(s); cut > 0; {
		if m, ok := parseObject(closeJSON(s[:cut])); ok {
			return m
		}
		i := strings.LastIndexAny(s[:cut-1], ",{[")
		if i < 0 {
			break
		}
		if s[i] == ',' {
			cut = i
		} else {
			cut = i + 1
		}
	}
	return map[string]any{}
}

func parseObject(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// closeJSON terminates a truncated JSON text.
func closeJSON(s string) string {
	var (
		closers  []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			closers = append(closers, '}')
		case '[':
			closers = append(closers, ']')
		case '}', ']':
			if len(closers) > 0 {
				closers = closers[:len(closers)-1]
			}
		}
	}
	out := s
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	} else {
		out = strings.TrimRight(out, " \t\r\n")
		switch {
		case strings.HasSuffix(out, ","):
			out = out[:len(out)-1]
		case strings.HasSuffix(out, ":"):
			out += "null"
		}
	}
	var b strings.Builder
	b.WriteString(out)
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteByte(closers[i])
	}
	return b.String()
}
