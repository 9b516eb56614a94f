package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{-5, "0B"},
		{512, "512B"},
		{1024, "1.00KiB"},
		{1536, "1.50KiB"},
		{5 * 1 << 20, "5.00MiB"},
		{1073741824, "1.00GiB"},
		{3 << 40, "3.00TiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
	assert.Equal(t, "1.50KiB", FormatSizeU(1536))
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100", 100},
		{"100B", 100},
		{"4K", 4096},
		{"4.0KiB", 4096},
		{"512M", 512 << 20},
		{"1.5G", 1610612736},
		{"2T", 2 << 40},
		{"1,5G", 1610612736},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, "ParseSize(%q)", tt.in)
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "-", "abc", "10X", "10GBX"} {
		_, err := ParseSize(in)
		assert.Error(t, err, "ParseSize(%q)", in)
	}
}
