//go:build darwin

package platform

import (
	"golang.org/x/sys/unix"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// DarwinPlatform implements Platform for macOS.
type DarwinPlatform struct{}

// New returns the macOS platform.
func New() (Platform, error) {
	return &DarwinPlatform{}, nil
}

// Name returns the platform identifier.
func (p *DarwinPlatform) Name() string { return "darwin" }

// Uname returns the kernel identity.
func (p *DarwinPlatform) Uname() (Uname, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Uname{}, errors.Wrap(errors.ErrCodeToolFailed, "uname failed", err)
	}
	return unameFrom(&u), nil
}

// MachineID reads the kern.uuid sysctl.
func (p *DarwinPlatform) MachineID() (string, error) {
	id, err := unix.Sysctl("kern.uuid")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, "kern.uuid unavailable", err)
	}
	return id, nil
}

// UsesSystemd is always false on macOS.
func (p *DarwinPlatform) UsesSystemd() bool { return false }

// DisplayDevices is not supported on macOS; collectors fall back to other
// GPU sources.
func (p *DarwinPlatform) DisplayDevices() ([]PCIDevice, error) {
	return nil, errors.New(errors.ErrCodeToolUnavailable, "PCI device tree not available on darwin")
}

// Browsers returns the macOS browser catalog.
func (p *DarwinPlatform) Browsers() []BrowserSpec {
	return []BrowserSpec{
		{
			Name:         "Google Chrome",
			AppBundle:    "/Applications/Google Chrome.app",
			BundleBinary: "Contents/MacOS/Google Chrome",
		},
		{Name: "Firefox", AppBundle: "/Applications/Firefox.app"},
		{Name: "Safari", AppBundle: "/Applications/Safari.app"},
		{Name: "Microsoft Edge", AppBundle: "/Applications/Microsoft Edge.app"},
		{Name: "Brave", AppBundle: "/Applications/Brave Browser.app"},
		{Name: "Arc", AppBundle: "/Applications/Arc.app"},
	}
}
