// CPU topology collector. Probe chain: lscpu, then /proc/cpuinfo, then
// gopsutil. Later sources only fill what earlier ones left empty.
package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const cpuinfoPath = "/proc/cpuinfo"

// CPUCollector collects processor identity and topology.
type CPUCollector struct {
	runner   probe.Runner
	platform platform.Platform
	logger   *zap.Logger
	info     func(ctx context.Context) ([]cpu.InfoStat, error)
	counts   func(ctx context.Context, logical bool) (int, error)
}

// NewCPUCollector creates a new CPU collector.
func NewCPUCollector(r probe.Runner, p platform.Platform, logger *zap.Logger) *CPUCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPUCollector{
		runner:   r,
		platform: p,
		logger:   logger,
		info:     cpu.InfoWithContext,
		counts:   cpu.CountsWithContext,
	}
}

// Name returns the collector identifier.
func (c *CPUCollector) Name() string { return "cpu" }

// IsAvailable returns true; gopsutil covers every supported platform.
func (c *CPUCollector) IsAvailable() bool { return true }

// Collect gathers CPU identity and topology.
func (c *CPUCollector) Collect(ctx context.Context) (interface{}, error) {
	info := models.CPUInfo{Cache: make(map[string]string)}

	if res, err := c.runner.Run(ctx, "lscpu"); err == nil {
		applyLscpu(parse.KeyValue(res.Stdout), &info)
		info.Source = "lscpu"
	} else {
		probe.LogFailure(c.logger, "lscpu", err)
		if data, ferr := c.runner.ReadFile(cpuinfoPath); ferr == nil {
			applyCPUInfo(parse.KeyValueBlocks(string(data)), &info)
			info.Source = "cpuinfo"
		} else {
			probe.LogFailure(c.logger, "cpuinfo", ferr)
		}
	}

	c.fillFromGopsutil(ctx, &info)

	if info.Architecture == "" {
		if u, err := c.platform.Uname(); err == nil {
			info.Architecture = u.Machine
		} else {
			info.Architecture = platform.Arch()
		}
	}
	fillUnknown(&info.Model, &info.Architecture, &info.Vendor, &info.MaxFrequency,
		&info.MinFrequency, &info.Virtualization, &info.Source)
	return info, nil
}

func (c *CPUCollector) fillFromGopsutil(ctx context.Context, info *models.CPUInfo) {
	if info.Model == "" || info.Vendor == "" || info.MaxFrequency == "" {
		if stats, err := c.info(ctx); err == nil && len(stats) > 0 {
			setIfEmpty(&info.Model, stats[0].ModelName)
			setIfEmpty(&info.Vendor, stats[0].VendorID)
			if stats[0].Mhz > 0 {
				setIfEmpty(&info.MaxFrequency, formatMHz(stats[0].Mhz))
			}
			if info.Source == "" {
				info.Source = "gopsutil"
			}
		} else if err != nil {
			c.logger.Debug("gopsutil cpu info unavailable", zap.Error(err))
		}
	}
	if info.CoresLogical == 0 {
		if n, err := c.counts(ctx, true); err == nil {
			info.CoresLogical = n
		}
	}
	if info.CoresPhysical == 0 {
		if n, err := c.counts(ctx, false); err == nil {
			info.CoresPhysical = n
		}
	}
}

// applyLscpu maps lscpu fields onto info. Physical cores are derived
// only after every field has been read, so line order does not matter.
func applyLscpu(kv map[string]string, info *models.CPUInfo) {
	info.Architecture = kv["architecture"]
	info.Model = kv["model_name"]
	info.Vendor = kv["vendor_id"]
	info.CoresLogical = atoi(kv["cpu_s"])
	info.Sockets = atoi(parse.FirstOf(kv, "socket_s", "cluster_s"))
	info.ThreadsPerCore = atoi(kv["thread_s_per_core"])
	coresPerSocket := atoi(parse.FirstOf(kv, "core_s_per_socket", "core_s_per_cluster"))

	if v, err := strconv.ParseFloat(kv["cpu_max_mhz"], 64); err == nil {
		info.MaxFrequency = formatMHz(v)
	}
	if v, err := strconv.ParseFloat(kv["cpu_min_mhz"], 64); err == nil {
		info.MinFrequency = formatMHz(v)
	}
	for key, v := range kv {
		if label := cacheLabel(key); label != "" && v != "" {
			info.Cache[label] = v
		}
	}
	info.Virtualization = kv["virtualization"]

	info.CoresPhysical = PhysicalCores(coresPerSocket, info.Sockets)
}

// cacheLabel returns the report label for an lscpu cache key, or "".
// Older lscpu prints "L1d cache:", newer releases print "L1d:" under a
// "Caches (sum of all):" heading; both yield "L1d".
func cacheLabel(key string) string {
	if len(key) < 2 || key[0] != 'l' || key[1] < '1' || key[1] > '3' {
		return ""
	}
	word, _, _ := strings.Cut(key, "_")
	return "L" + word[1:]
}

// applyCPUInfo maps /proc/cpuinfo processor blocks onto info.
func applyCPUInfo(blocks []map[string]string, info *models.CPUInfo) {
	sockets := make(map[string]bool)
	cores := make(map[string]bool)
	for _, b := range blocks {
		if _, ok := b["processor"]; !ok {
			continue
		}
		info.CoresLogical++
		setIfEmpty(&info.Model, parse.FirstOf(b, "model_name", "cpu_model", "hardware"))
		setIfEmpty(&info.Vendor, parse.FirstOf(b, "vendor_id", "cpu_implementer"))
		if mhz, err := strconv.ParseFloat(b["cpu_mhz"], 64); err == nil {
			setIfEmpty(&info.MaxFrequency, formatMHz(mhz))
		}
		if size := b["cache_size"]; size != "" {
			if _, ok := info.Cache["cache_size"]; !ok {
				info.Cache["cache_size"] = size
			}
		}
		if info.Virtualization == "" {
			info.Virtualization = virtualizationFromFlags(b["flags"])
		}
		if pid, ok := b["physical_id"]; ok {
			sockets[pid] = true
			if cid, ok := b["core_id"]; ok {
				cores[pid+"/"+cid] = true
			}
		}
	}
	info.Sockets = len(sockets)
	info.CoresPhysical = len(cores)
	if info.CoresPhysical > 0 && info.CoresLogical > 0 {
		info.ThreadsPerCore = info.CoresLogical / info.CoresPhysical
	}
}

// PhysicalCores is cores per socket times sockets, or 0 when either is
// unknown.
func PhysicalCores(coresPerSocket, sockets int) int {
	if coresPerSocket <= 0 || sockets <= 0 {
		return 0
	}
	return coresPerSocket * sockets
}

func virtualizationFromFlags(flags string) string {
	for _, f := range strings.Fields(flags) {
		switch f {
		case "vmx":
			return "VT-x"
		case "svm":
			return "AMD-V"
		}
	}
	return ""
}

func formatMHz(v float64) string {
	return fmt.Sprintf("%s MHz", strconv.FormatFloat(v, 'f', -1, 64))
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
