//go:build linux

package platform

import (
	"github.com/coreos/go-systemd/v22/util"
	"github.com/jaypipes/ghw"
	"golang.org/x/sys/unix"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// LinuxPlatform implements Platform for Linux.
type LinuxPlatform struct{}

// New returns the Linux platform.
func New() (Platform, error) {
	return &LinuxPlatform{}, nil
}

// Name returns the platform identifier.
func (p *LinuxPlatform) Name() string { return "linux" }

// Uname returns the kernel identity.
func (p *LinuxPlatform) Uname() (Uname, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Uname{}, errors.Wrap(errors.ErrCodeToolFailed, "uname failed", err)
	}
	return unameFrom(&u), nil
}

// MachineID reads /etc/machine-id (or the dbus copy) via go-systemd.
func (p *LinuxPlatform) MachineID() (string, error) {
	id, err := util.GetMachineID()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, "machine id unavailable", err)
	}
	return id, nil
}

// UsesSystemd reports whether systemd is PID 1.
func (p *LinuxPlatform) UsesSystemd() bool {
	return util.IsRunningSystemd()
}

// DisplayDevices lists graphics cards from sysfs, named through the PCI
// database.
func (p *LinuxPlatform) DisplayDevices() ([]PCIDevice, error) {
	info, err := ghw.GPU(ghw.WithDisableWarnings())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, "graphics device tree unavailable", err)
	}
	var out []PCIDevice
	for _, card := range info.GraphicsCards {
		if card == nil {
			continue
		}
		d := PCIDevice{Address: card.Address}
		if di := card.DeviceInfo; di != nil {
			if di.Vendor != nil {
				d.VendorID = di.Vendor.ID
				d.Vendor = di.Vendor.Name
			}
			if di.Product != nil {
				d.Product = di.Product.Name
			}
			d.Driver = di.Driver
		}
		out = append(out, d)
	}
	return out, nil
}

// Browsers returns the Linux browser catalog.
func (p *LinuxPlatform) Browsers() []BrowserSpec {
	return []BrowserSpec{
		{Name: "Google Chrome", Executables: []string{"google-chrome", "google-chrome-stable"}},
		{Name: "Firefox", Executables: []string{"firefox"}},
		{Name: "Chromium", Executables: []string{"chromium-browser", "chromium"}},
		{Name: "Opera", Executables: []string{"opera"}},
		{Name: "Cachy Browser", Executables: []string{"cachy-browser"}},
		{Name: "Brave", Executables: []string{"brave-browser", "brave"}},
		{Name: "Vivaldi", Executables: []string{"vivaldi", "vivaldi-stable"}},
		{Name: "LibreWolf", Executables: []string{"librewolf"}},
		{Name: "Microsoft Edge", Executables: []string{"microsoft-edge", "microsoft-edge-stable"}},
		{
			Name:          "Tor Browser",
			Executables:   []string{"torbrowser-launcher"},
			VersionArgs:   []string{"--settings"},
			VersionPrefix: "version ",
		},
		{Name: "Mullvad Browser", Executables: []string{"mullvad-browser"}},
	}
}
