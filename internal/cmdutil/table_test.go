package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{in: 0, expected: "0 B"},
		{in: 512, expected: "512 B"},
		{in: 2048, expected: "2.00 KB"},
		{in: 5 * 1024 * 1024, expected: "5.00 MB"},
		{in: 3 * 1024 * 1024 * 1024, expected: "3.00 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBytes(tt.in))
	}
}
