// GPU collector. Unions every source that can see a graphics device:
// nvidia-smi, AMD sysfs nodes, the PCI device tree, glxinfo and, only when
// nothing else found a device, lspci. Devices are merged by name and
// ordered NVIDIA, AMD, then everything else.
package collector

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const (
	drmDir       = "/sys/class/drm"
	amdVendorID  = "0x1002"
	nvidiaQuery  = "--query-gpu=name,driver_version,memory.total,compute_mode"
	nvidiaFormat = "--format=csv,noheader"
)

// GPUCollector collects graphics devices.
type GPUCollector struct {
	runner   probe.Runner
	platform platform.Platform
	logger   *zap.Logger
}

// NewGPUCollector creates a new GPU collector.
func NewGPUCollector(r probe.Runner, p platform.Platform, logger *zap.Logger) *GPUCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GPUCollector{runner: r, platform: p, logger: logger}
}

// Name returns the collector identifier.
func (c *GPUCollector) Name() string { return "gpu" }

// IsAvailable returns true; an empty list is a valid answer.
func (c *GPUCollector) IsAvailable() bool { return true }

// Collect returns the merged device list, possibly empty.
func (c *GPUCollector) Collect(ctx context.Context) (interface{}, error) {
	set := &gpuSet{}

	for _, g := range c.fromNvidiaSMI(ctx) {
		set.add(g)
	}
	for _, g := range c.fromSysfs() {
		set.add(g)
	}
	for _, g := range c.fromDeviceTree() {
		set.add(g)
	}
	c.applyGlxInfo(ctx, set)
	if len(set.gpus) == 0 {
		for _, g := range c.fromLspci(ctx) {
			set.add(g)
		}
	}

	out := set.sorted()
	c.logger.Debug("GPU sources merged", zap.Int("devices", len(out)))
	return out, nil
}

func (c *GPUCollector) fromNvidiaSMI(ctx context.Context) []models.GPU {
	res, err := c.runner.Run(ctx, "nvidia-smi", nvidiaQuery, nvidiaFormat)
	if err != nil {
		probe.LogFailure(c.logger, "nvidia-smi", err)
		return nil
	}
	var out []models.GPU
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		out = append(out, models.GPU{
			Name:          fields[0],
			Vendor:        "NVIDIA",
			Driver:        "nvidia",
			DriverVersion: fields[1],
			Memory:        fields[2],
			ComputeMode:   fields[3],
			Sources:       []string{"nvidia-smi"},
		})
	}
	return out
}

// fromSysfs reads AMD cards from /sys/class/drm/cardN/device.
func (c *GPUCollector) fromSysfs() []models.GPU {
	entries, err := c.runner.ReadDir(drmDir)
	if err != nil {
		probe.LogFailure(c.logger, "drm", err)
		return nil
	}
	var out []models.GPU
	for _, e := range entries {
		if !strings.HasPrefix(e, "card") || strings.Contains(e, "-") {
			continue
		}
		dev := path.Join(drmDir, e, "device")
		vendor, err := probe.FileText(c.runner, path.Join(dev, "vendor"))
		if err != nil || vendor != amdVendorID {
			continue
		}
		g := models.GPU{Vendor: "AMD", Driver: "amdgpu", Sources: []string{"sysfs"}}
		if name, err := probe.FileText(c.runner, path.Join(dev, "product_name")); err == nil && name != "" {
			g.Name = name
		} else {
			g.Name = "AMD Radeon Graphics (" + e + ")"
		}
		if vram, err := probe.FileText(c.runner, path.Join(dev, "mem_info_vram_total")); err == nil {
			if n, err := strconv.ParseInt(vram, 10, 64); err == nil {
				g.Memory = parse.FormatSize(n)
			}
		}
		out = append(out, g)
	}
	return out
}

func (c *GPUCollector) fromDeviceTree() []models.GPU {
	devs, err := c.platform.DisplayDevices()
	if err != nil {
		probe.LogFailure(c.logger, "pci", err)
		return nil
	}
	var out []models.GPU
	for _, d := range devs {
		name := d.Product
		if name == "" {
			continue
		}
		out = append(out, models.GPU{
			Name:       name,
			Vendor:     vendorLabel(d.Vendor),
			Driver:     d.Driver,
			PCIAddress: d.Address,
			Sources:    []string{"pci"},
		})
	}
	return out
}

// applyGlxInfo attaches OpenGL details to the device matching the active
// renderer, or adds the renderer as a device of its own.
func (c *GPUCollector) applyGlxInfo(ctx context.Context, set *gpuSet) {
	res, err := c.runner.Run(ctx, "glxinfo", "-B")
	if err != nil {
		probe.LogFailure(c.logger, "glxinfo", err)
		return
	}
	kv := parse.GlxInfo(res.Stdout)
	renderer := kv["renderer_string"]
	if renderer == "" {
		return
	}
	gl := &models.OpenGLInfo{
		Vendor:   kv["vendor_string"],
		Renderer: renderer,
		Version:  parse.FirstOf(kv, "version_string", "core_profile_version_string"),
	}
	base := rendererName(renderer)
	for i := range set.gpus {
		if sameDevice(set.gpus[i].Name, base) {
			set.gpus[i].OpenGL = gl
			set.gpus[i].Sources = append(set.gpus[i].Sources, "glxinfo")
			return
		}
	}
	set.gpus = append(set.gpus, models.GPU{
		Name:    base,
		Vendor:  vendorLabel(gl.Vendor),
		OpenGL:  gl,
		Sources: []string{"glxinfo"},
	})
}

func (c *GPUCollector) fromLspci(ctx context.Context) []models.GPU {
	res, err := c.runner.Run(ctx, "lspci", "-v")
	if err != nil {
		probe.LogFailure(c.logger, "lspci", err)
		return nil
	}
	var out []models.GPU
	for _, d := range parse.LspciDisplays(res.Stdout) {
		out = append(out, models.GPU{
			Name:       d.Description,
			Vendor:     vendorLabel(d.Description),
			Driver:     d.Driver,
			PCIAddress: d.Slot,
			Sources:    []string{"lspci"},
		})
	}
	return out
}

// gpuSet accumulates devices, merging entries that name the same device.
type gpuSet struct {
	gpus []models.GPU
}

func (s *gpuSet) add(g models.GPU) {
	for i := range s.gpus {
		if !sameDevice(s.gpus[i].Name, g.Name) {
			continue
		}
		cur := &s.gpus[i]
		setIfEmpty(&cur.Vendor, g.Vendor)
		setIfEmpty(&cur.Driver, g.Driver)
		setIfEmpty(&cur.DriverVersion, g.DriverVersion)
		setIfEmpty(&cur.Memory, g.Memory)
		setIfEmpty(&cur.ComputeMode, g.ComputeMode)
		setIfEmpty(&cur.PCIAddress, g.PCIAddress)
		if cur.OpenGL == nil {
			cur.OpenGL = g.OpenGL
		}
		cur.Sources = append(cur.Sources, g.Sources...)
		return
	}
	s.gpus = append(s.gpus, g)
}

// sorted returns the devices ordered NVIDIA, AMD, others, keeping
// discovery order within each group. The result is never nil.
func (s *gpuSet) sorted() []models.GPU {
	out := make([]models.GPU, len(s.gpus))
	copy(out, s.gpus)
	sort.SliceStable(out, func(i, j int) bool {
		return vendorRank(out[i]) < vendorRank(out[j])
	})
	return out
}

func vendorRank(g models.GPU) int {
	s := strings.ToLower(g.Vendor + " " + g.Name)
	switch {
	case strings.Contains(s, "nvidia"):
		return 0
	case strings.Contains(s, "amd"), strings.Contains(s, "advanced micro devices"),
		strings.Contains(s, "radeon"), strings.Contains(s, "ati "):
		return 1
	default:
		return 2
	}
}

func vendorLabel(s string) string {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "nvidia"):
		return "NVIDIA"
	case strings.Contains(l, "amd"), strings.Contains(l, "advanced micro devices"),
		strings.Contains(l, "radeon"):
		return "AMD"
	case strings.Contains(l, "intel"):
		return "Intel"
	case strings.TrimSpace(s) == "":
		return models.Unknown
	}
	return strings.TrimSpace(s)
}

// rendererName strips the "/PCIe/SSE2" and "(driver details)" suffixes
// glxinfo appends to a renderer string.
func rendererName(r string) string {
	if i := strings.Index(r, "/"); i > 0 {
		r = r[:i]
	}
	if i := strings.Index(r, " ("); i > 0 {
		r = r[:i]
	}
	return strings.TrimSpace(r)
}

// minNameOverlap is the shortest name that may match as a suffix of
// another, so "NVIDIA GeForce RTX 3080" matches "GeForce RTX 3080".
const minNameOverlap = 8

// sameDevice reports whether two names refer to the same device. Names
// match when equal ignoring case, when one is a vendor-prefixed form of
// the other, or when one contains the other's bracketed marketing name
// ("GA102 [GeForce RTX 3080]").
func sameDevice(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	if la == lb {
		return true
	}
	short, long := la, lb
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) >= minNameOverlap && strings.HasSuffix(long, " "+short) {
		return true
	}
	if m := bracketed(la); m != "" && strings.Contains(lb, m) {
		return true
	}
	if m := bracketed(lb); m != "" && strings.Contains(la, m) {
		return true
	}
	return false
}

func bracketed(s string) string {
	open := strings.LastIndex(s, "[")
	end := strings.LastIndex(s, "]")
	if open < 0 || end <= open+1 {
		return ""
	}
	return strings.TrimSpace(s[open+1 : end])
}
