package nlu

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// decode parses a raw completion into a Result. Stage one is a strict
// parse of the whole payload; stage two extracts the first balanced
// {...} block, since models sometimes wrap the JSON in prose or code
// fences.
func decode(raw string) (Result, error) {
	var r Result
	if err := sonic.UnmarshalString(raw, &r); err == nil {
		return r, nil
	}

	block, ok := firstJSONObject(raw)
	if !ok {
		return Result{}, fmt.Errorf("no JSON object in completion")
	}
	if err := sonic.UnmarshalString(block, &r); err != nil {
		return Result{}, fmt.Errorf("embedded JSON object invalid: %w", err)
	}
	return r, nil
}

// firstJSONObject returns the first balanced top-level {...} block in s.
// Braces inside JSON string literals do not count toward the balance.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

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
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
