package models

// OSInfo identifies the operating system and host.
type OSInfo struct {
	Name          string `json:"name"`
	Distribution  string `json:"distribution"`
	Version       string `json:"version"`
	BasedOn       string `json:"based_on"`
	BuildID       string `json:"build_id"`
	Kernel        string `json:"kernel"`
	KernelVersion string `json:"kernel_version"`
	Architecture  string `json:"architecture"`
	Chassis       string `json:"chassis"`
	Hostname      string `json:"hostname"`
	MachineID     string `json:"machine_id"`
	BootID        string `json:"boot_id"`
	Source        string `json:"source"`
}

// MotherboardInfo describes the board and its firmware.
type MotherboardInfo struct {
	Vendor          string `json:"vendor"`
	Model           string `json:"model"`
	FirmwareVersion string `json:"firmware_version"`
	FirmwareDate    string `json:"firmware_date"`
	Source          string `json:"source"`
}

// CPUInfo describes the processor package(s).
type CPUInfo struct {
	Model          string            `json:"model"`
	Architecture   string            `json:"architecture"`
	Vendor         string            `json:"vendor"`
	CoresPhysical  int               `json:"cores_physical"`
	CoresLogical   int               `json:"cores_logical"`
	Sockets        int               `json:"sockets"`
	ThreadsPerCore int               `json:"threads_per_core"`
	MaxFrequency   string            `json:"max_frequency"`
	MinFrequency   string            `json:"min_frequency"`
	Cache          map[string]string `json:"cache"`
	Virtualization string            `json:"virtualization"`
	Source         string            `json:"source"`
}

// OpenGLInfo is what glxinfo reports for the active renderer.
type OpenGLInfo struct {
	Vendor   string `json:"vendor,omitempty"`
	Renderer string `json:"renderer,omitempty"`
	Version  string `json:"version,omitempty"`
}

// GPU is one graphics device. Sources lists every probe that reported it.
type GPU struct {
	Name          string      `json:"name"`
	Vendor        string      `json:"vendor"`
	Driver        string      `json:"driver,omitempty"`
	DriverVersion string      `json:"driver_version,omitempty"`
	Memory        string      `json:"memory,omitempty"`
	ComputeMode   string      `json:"compute_mode,omitempty"`
	PCIAddress    string      `json:"pci_address,omitempty"`
	OpenGL        *OpenGLInfo `json:"opengl,omitempty"`
	Sources       []string    `json:"sources"`
}

// MemoryInfo holds physical and swap memory figures.
type MemoryInfo struct {
	Total     string   `json:"total"`
	Available string   `json:"available"`
	Used      string   `json:"used"`
	Percent   string   `json:"percent"`
	Swap      SwapInfo `json:"swap"`
}

// SwapInfo holds swap figures.
type SwapInfo struct {
	Total   string `json:"total"`
	Used    string `json:"used"`
	Free    string `json:"free"`
	Percent string `json:"percent"`
}

// Partition is a partition or a device stacked on one.
type Partition struct {
	Name        string      `json:"name"`
	Size        string      `json:"size"`
	Type        string      `json:"type"`
	Mountpoints []string    `json:"mountpoints"`
	ReadOnly    bool        `json:"read_only"`
	Used        string      `json:"used,omitempty"`
	Available   string      `json:"available,omitempty"`
	UsePercent  string      `json:"use_percent,omitempty"`
	Children    []Partition `json:"children,omitempty"`
}

// BlockDevice is a whole disk.
type BlockDevice struct {
	Name        string      `json:"name"`
	Size        string      `json:"size"`
	Type        string      `json:"type"`
	Removable   bool        `json:"removable"`
	ReadOnly    bool        `json:"read_only"`
	Mountpoints []string    `json:"mountpoints,omitempty"`
	Partitions  []Partition `json:"partitions"`
}

// Filesystem is one mounted filesystem as reported by df.
type Filesystem struct {
	Device     string `json:"device"`
	Size       string `json:"size"`
	Used       string `json:"used"`
	Available  string `json:"available"`
	UsePercent string `json:"use_percent"`
	Mountpoint string `json:"mountpoint"`
}

// DiskTotals sums the filesystems list.
type DiskTotals struct {
	Size      string `json:"size"`
	Used      string `json:"used"`
	Available string `json:"available"`
}

// DiskInfo groups block devices by kind and lists real filesystems.
type DiskInfo struct {
	System      []BlockDevice `json:"system"`
	Removable   []BlockDevice `json:"removable"`
	Virtual     []BlockDevice `json:"virtual"`
	Filesystems []Filesystem  `json:"filesystems"`
	Totals      DiskTotals    `json:"totals"`
	Source      string        `json:"source"`
}

// NetAddr is one address bound to an interface. Family is "ipv4", "ipv6"
// or "link" (hardware address).
type NetAddr struct {
	Family    string `json:"family"`
	Address   string `json:"address"`
	Netmask   string `json:"netmask,omitempty"`
	Broadcast string `json:"broadcast,omitempty"`
}

// NetInterface is one network interface with its addresses.
type NetInterface struct {
	Name      string    `json:"name"`
	MTU       int       `json:"mtu"`
	Flags     []string  `json:"flags"`
	Addresses []NetAddr `json:"addresses"`
}

// UptimeInfo holds boot time and, when available, load averages.
type UptimeInfo struct {
	BootTime      string    `json:"boot_time"`
	UptimeSeconds uint64    `json:"uptime_seconds"`
	LoadAverage   []float64 `json:"load_average,omitempty"`
}

// TemperatureInfo holds the hottest CPU and GPU readings in Celsius.
type TemperatureInfo struct {
	CPU *float64 `json:"cpu"`
	GPU *float64 `json:"gpu"`
}

// UserInfo describes the invoking user.
type UserInfo struct {
	Username string   `json:"username"`
	UID      string   `json:"uid"`
	Home     string   `json:"home"`
	IsAdmin  bool     `json:"is_admin"`
	Groups   []string `json:"groups"`
}

// ProcessInfo is one entry of the top-by-CPU process list.
type ProcessInfo struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
}

// GitInfo is the version-control state of the project root.
type GitInfo struct {
	Version    string `json:"version"`
	Branch     string `json:"branch"`
	Status     string `json:"status"`
	LastCommit string `json:"last_commit"`
}
