// Package llmjson digs JSON out of language model replies, which tend to
// wrap it in code fences, prose or an extra object layer.
package llmjson

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var fence = regexp.MustCompile("```(?:json)?\\s*")

// Clean strips markdown code fences and surrounding space.
func Clean(s string) string {
	s = fence.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}

// FixEscapes doubles backslashes that do not start a valid JSON escape,
// so sequences like the ASS line break \N survive decoding literally.
func FixEscapes(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			sb.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; next {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			sb.WriteByte('\\')
			sb.WriteByte(next)
		default:
			sb.WriteString(`\\`)
			sb.WriteByte(next)
		}
		i++
	}
	return sb.String()
}

// FindArray decodes the JSON values embedded in s in order and returns
// the first array accept takes. Inside objects, arrays are searched
// depth-first under any key.
func FindArray(s string, accept func(arr gjson.Result) bool) (gjson.Result, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}

		if arr, ok := search(gjson.ParseBytes(raw), accept); ok {
			return arr, true
		}
		i += int(dec.InputOffset()) - 1
	}
	return gjson.Result{}, false
}

func search(v gjson.Result, accept func(gjson.Result) bool) (gjson.Result, bool) {
	switch {
	case v.IsArray():
		if accept(v) {
			return v, true
		}
	case v.IsObject():
		var (
			found gjson.Result
			ok    bool
		)
		v.ForEach(func(_, child gjson.Result) bool {
			found, ok = search(child, accept)
			return !ok
		})
		return found, ok
	}
	return gjson.Result{}, false
}

// Truncate shortens s for error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
