package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateKind(t *testing.T) {
	tests := []struct {
		current, latest, want string
	}{
		{"1.2.3", "2.0.0", UpdateMajor},
		{"1.2.3", "1.3.0", UpdateMinor},
		{"1.2.3", "1.2.4", UpdatePatch},
		{"1.2.3", "1.2.3", UpdateNone},
		{"2.0", "1.9", UpdateNone},
		{"23.2", "24.0", UpdateMajor},
		{"1.26.4.post1", "1.26.5", UpdatePatch},
		{"^4.17.1", "4.18.2", UpdateMinor},
		{"v1.0.0-beta.1", "1.0.1", UpdatePatch},
		{"", "1.0.0", UpdateUnknown},
		{"git+https://x", "1.0.0", UpdateUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpdateKind(tt.current, tt.latest), "%s -> %s", tt.current, tt.latest)
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.WithDefaults()
	assert.NotNil(t, o.Logger)
	assert.NotNil(t, o.Getenv)
	assert.Equal(t, ".", o.ProjectRoot)
}
