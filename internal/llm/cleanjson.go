package llm

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// emptyJSON is returned when no JSON document can be recovered
const emptyJSON = "{}"

var (
	fencedJSON   = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\}|\\[.*?\\])\\s*```")
	embeddedJSON = regexp.MustCompile(`(?s)\{.*?\}|\[.*?\]`)
)

// CleanJSON extracts a JSON object or array from model output. It tries a
// fenced ```json block, then the first embedded {...} or [...], then the
// outermost structure, and returns "{}" when none parses.
func CleanJSON(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyJSON
	}

	if m := fencedJSON.FindStringSubmatch(text); m != nil && json.Valid([]byte(m[1])) {
		return m[1]
	}
	if m := embeddedJSON.FindString(text); m != "" && json.Valid([]byte(m)) {
		return m
	}
	if m := outermost(text); m != "" && json.Valid([]byte(m)) {
		return m
	}
	return emptyJSON
}

// outermost returns the text from the first { or [ to the last matching
// closer.
func outermost(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
