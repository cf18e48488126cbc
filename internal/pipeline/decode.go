package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// decodeSnippetLen is how much of an undecodable response DecodeError keeps.
const decodeSnippetLen = 300

// DecodeError means no extraction strategy produced valid JSON.
type DecodeError struct {
	// Snippet is the start of the trimmed model output.
	Snippet string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse JSON from model response. First %d chars:\n%s", decodeSnippetLen, e.Snippet)
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")

// Decode extracts a JSON object of type T from raw model output. It tries,
// in order: the whole trimmed text, the body of the first fenced code block,
// and the span from the first '{' to the last '}'. Nothing else is repaired.
func Decode[T any](raw string) (T, error) {
	var out T
	cleaned := strings.TrimSpace(raw)

	if tryUnmarshal(cleaned, &out) {
		return out, nil
	}

	if m := fencedBlock.FindStringSubmatch(cleaned); m != nil {
		out = *new(T)
		if tryUnmarshal(strings.TrimSpace(m[1]), &out) {
			return out, nil
		}
	}

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		out = *new(T)
		if tryUnmarshal(cleaned[first:last+1], &out) {
			return out, nil
		}
	}

	var zero T
	return zero, &DecodeError{Snippet: truncateRunes(cleaned, decodeSnippetLen)}
}

// tryUnmarshal only accepts JSON objects; a bare null would otherwise
// decode into a zero struct without error.
func tryUnmarshal(text string, dst any) bool {
	if !strings.HasPrefix(text, "{") {
		return false
	}
	return json.Unmarshal([]byte(text), dst) == nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
