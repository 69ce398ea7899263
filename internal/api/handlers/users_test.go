package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456789012", "********9012"},
		{"NID-1", "*ID-1"},
		{"abcd", "****"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := maskIdentifier(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "5678")
		})
	}
}
