package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A int `json:"a"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain object", `{"a":1}`},
		{"surrounding whitespace", "\n\t {\"a\":1}  \n"},
		{"json fence", "```json\n{\"a\":1}\n```"},
		{"bare fence", "```\n{\"a\":1}\n```"},
		{"fence with prose", "Sure, here you go:\n```json\n{\"a\":1}\n```\nAnything else?"},
		{"embedded object", `noise{"a":1}trailing`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode[sample](tt.raw)
			require.NoError(t, err)
			assert.Equal(t, 1, got.A)
		})
	}
}

func TestDecode_Failure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "not json at all"},
		{"empty", "   "},
		{"array", `[1, 2, 3]`},
		{"null", "null"},
		{"broken braces", `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[sample](tt.raw)
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, strings.TrimSpace(tt.raw), de.Snippet)
		})
	}
}

func TestDecode_SnippetIsCapped(t *testing.T) {
	raw := strings.Repeat("x", 1000)
	_, err := Decode[sample](raw)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Snippet, decodeSnippetLen)
	assert.Contains(t, err.Error(), "First 300 chars")
}

func TestDecode_WrongFieldType(t *testing.T) {
	_, err := Decode[sample](`{"a":"one"}`)
	assert.Error(t, err)
}
