// Package platformtest provides a configurable platform.Platform for tests.
package platformtest

import (
	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/platform"
)

// Platform returns whatever its fields hold. A zero Platform reports a
// linux host without systemd, uname, machine id or display devices.
type Platform struct {
	OS          string
	Kernel      *platform.Uname
	ID          string
	Systemd     bool
	Displays    []platform.PCIDevice
	DisplaysErr error
	Catalog     []platform.BrowserSpec
}

var _ platform.Platform = (*Platform)(nil)

// Name implements platform.Platform.
func (p *Platform) Name() string {
	if p.OS == "" {
		return "linux"
	}
	return p.OS
}

// Uname implements platform.Platform.
func (p *Platform) Uname() (platform.Uname, error) {
	if p.Kernel == nil {
		return platform.Uname{}, errors.New(errors.ErrCodeToolUnavailable, "uname not scripted")
	}
	return *p.Kernel, nil
}

// MachineID implements platform.Platform.
func (p *Platform) MachineID() (string, error) {
	if p.ID == "" {
		return "", errors.New(errors.ErrCodeNotFound, "machine id not scripted")
	}
	return p.ID, nil
}

// UsesSystemd implements platform.Platform.
func (p *Platform) UsesSystemd() bool { return p.Systemd }

// DisplayDevices implements platform.Platform.
func (p *Platform) DisplayDevices() ([]platform.PCIDevice, error) {
	if p.DisplaysErr != nil {
		return nil, p.DisplaysErr
	}
	return p.Displays, nil
}

// Browsers implements platform.Platform.
func (p *Platform) Browsers() []platform.BrowserSpec { return p.Catalog }
