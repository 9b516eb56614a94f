// Package platform provides the per-OS capability set that collectors need
// beyond gopsutil: kernel identity, machine identity, PCI display devices
// and the catalog of known browser installations. Exactly one
// implementation is compiled in for the running OS and selected once at
// startup.
package platform

import "runtime"

// Uname is the kernel identity reported by uname(2).
type Uname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

// PCIDevice is a display controller found on the PCI bus.
type PCIDevice struct {
	Address  string
	VendorID string
	Vendor   string
	Product  string
	Driver   string
}

// BrowserSpec describes how to find one browser and read its version.
type BrowserSpec struct {
	Name string

	// Executables are looked up on PATH in order; the first hit wins.
	Executables []string

	// VersionArgs are passed to the executable; defaults to --version.
	VersionArgs []string

	// VersionPrefix, when set, selects the output line starting with it.
	VersionPrefix string

	// AppBundle is a macOS .app path probed instead of Executables.
	AppBundle string

	// BundleBinary, relative to AppBundle, is run with --version instead
	// of reading the bundle's Info.plist.
	BundleBinary string
}

// Platform is the OS capability set.
type Platform interface {
	// Name returns the platform identifier (linux, darwin).
	Name() string

	// Uname returns the kernel identity.
	Uname() (Uname, error)

	// MachineID returns a stable identifier for this installation.
	MachineID() (string, error)

	// UsesSystemd reports whether the host was booted with systemd, which
	// decides whether hostnamectl is worth probing.
	UsesSystemd() bool

	// DisplayDevices lists PCI display controllers from the kernel device tree.
	DisplayDevices() ([]PCIDevice, error)

	// Browsers returns the browser catalog for this OS.
	Browsers() []BrowserSpec
}

// Arch returns the Go architecture name, used when uname is unavailable.
func Arch() string { return runtime.GOARCH }
