package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		other string
		want  bool
	}{
		{"", true},
		{Version, true},
		{"2.0.0", true},
		{"2.9.17", true},
		{"v2.3.1", true},
		{"1.4.0", false},
		{"3.0.0", false},
		{"v1.0.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compatible(tt.other), "other=%q", tt.other)
	}
}
