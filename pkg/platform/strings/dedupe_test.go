package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		trim      []string
		trimLower []string
	}{
		{
			name:      "nil stays nil",
			input:     nil,
			trim:      nil,
			trimLower: nil,
		},
		{
			name:      "kafka broker list from env",
			input:     []string{" broker-1:9092", "broker-2:9092 ", "broker-1:9092", ""},
			trim:      []string{"broker-1:9092", "broker-2:9092"},
			trimLower: []string{"broker-1:9092", "broker-2:9092"},
		},
		{
			name:      "token email claims keep first occurrence",
			input:     []string{"Ada@example.test", "  ", "ada@example.test", "Ada@example.test"},
			trim:      []string{"Ada@example.test", "ada@example.test"},
			trimLower: []string{"ada@example.test"},
		},
		{
			name:      "directory group names",
			input:     []string{"BPD-Admins ", "bpd-admins", "Operators"},
			trim:      []string{"BPD-Admins", "bpd-admins", "Operators"},
			trimLower: []string{"bpd-admins", "operators"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.trim, DedupeAndTrim(tt.input))
			assert.Equal(t, tt.trimLower, DedupeAndTrimLower(tt.input))
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "RSS*************", Mask("RSSMRA80A01H501U", 3))
	assert.Equal(t, "***", Mask("AB", 3), "short values do not reveal their length")
	assert.Equal(t, "****", Mask("ABCD", -1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "3f9a1c", Truncate("3f9a1c77e0", 6))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("ab", -1))
}
