//go:build !linux && !darwin

package platform

import (
	"runtime"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// New fails: only Linux and macOS have a capability set.
func New() (Platform, error) {
	return nil, errors.NewWithContext(errors.ErrCodeUnsupportedPlatform,
		"unsupported platform: "+runtime.GOOS,
		map[string]any{"goos": runtime.GOOS})
}
