// OS identity collector. Probe chain:
//   - Linux: hostnamectl (systemd hosts only), then /etc/os-release or
//     /usr/lib/os-release, then uname and gopsutil host info
//   - macOS: sw_vers, then uname and gopsutil host info
//
// Each later source only fills fields the earlier ones left empty.
package collector

import (
	"context"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

const bootIDPath = "/proc/sys/kernel/random/boot_id"

// OSCollector collects operating system and host identity.
type OSCollector struct {
	runner   probe.Runner
	platform platform.Platform
	logger   *zap.Logger
	hostInfo func(ctx context.Context) (*host.InfoStat, error)
}

// NewOSCollector creates a new OS identity collector.
func NewOSCollector(r probe.Runner, p platform.Platform, logger *zap.Logger) *OSCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSCollector{
		runner:   r,
		platform: p,
		logger:   logger,
		hostInfo: host.InfoWithContext,
	}
}

// Name returns the collector identifier.
func (c *OSCollector) Name() string { return "os" }

// IsAvailable returns true; uname alone is enough to report something.
func (c *OSCollector) IsAvailable() bool { return true }

// Collect walks the probe chain and fills missing fields with Unknown.
func (c *OSCollector) Collect(ctx context.Context) (interface{}, error) {
	info := models.OSInfo{}
	var sources []string

	if c.platform.Name() == "darwin" {
		if c.fromSwVers(ctx, &info) {
			sources = append(sources, "sw_vers")
		}
	} else {
		if c.platform.UsesSystemd() {
			if src, ok := c.fromHostnamectl(ctx, &info); ok {
				sources = append(sources, src)
			}
		}
		if c.fromOSRelease(&info) {
			sources = append(sources, "os-release")
		}
	}

	if c.fromUname(&info) {
		sources = append(sources, "uname")
	}
	if c.fromHostInfo(ctx, &info) {
		sources = append(sources, "gopsutil")
	}

	if info.MachineID == "" {
		if id, err := c.platform.MachineID(); err == nil {
			info.MachineID = id
		}
	}
	if info.BootID == "" && c.platform.Name() == "linux" {
		if id, err := probe.FileText(c.runner, bootIDPath); err == nil {
			info.BootID = strings.ReplaceAll(id, "-", "")
		}
	}
	if info.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			info.Hostname = h
		}
	}

	info.Source = strings.Join(sources, ",")
	fillUnknown(&info.Name, &info.Distribution, &info.Version, &info.BasedOn,
		&info.BuildID, &info.Kernel, &info.KernelVersion, &info.Architecture,
		&info.Chassis, &info.Hostname, &info.MachineID, &info.BootID, &info.Source)
	return info, nil
}

func (c *OSCollector) fromHostnamectl(ctx context.Context, info *models.OSInfo) (string, bool) {
	kv, src, err := hostnamectlFacts(ctx, c.runner)
	if err != nil {
		probe.LogFailure(c.logger, "hostnamectl", err)
		return "", false
	}
	setIfEmpty(&info.Distribution, kv["operating_system"])
	setIfEmpty(&info.Kernel, kv["kernel_name"])
	setIfEmpty(&info.KernelVersion, kv["kernel_release"])
	setIfEmpty(&info.Architecture, kv["architecture"])
	setIfEmpty(&info.Chassis, kv["chassis"])
	setIfEmpty(&info.Hostname, kv["static_hostname"])
	setIfEmpty(&info.MachineID, kv["machine_id"])
	setIfEmpty(&info.BootID, kv["boot_id"])
	return src, true
}

func (c *OSCollector) fromOSRelease(info *models.OSInfo) bool {
	_, data, err := probe.FirstFile(c.runner, osReleasePaths...)
	if err != nil {
		probe.LogFailure(c.logger, "os-release", err)
		return false
	}
	kv := parse.KeyValue(string(data), parse.WithDelimiters("="), parse.WithUnquote())
	setIfEmpty(&info.Name, kv["name"])
	setIfEmpty(&info.Distribution, parse.FirstOf(kv, "pretty_name", "name"))
	setIfEmpty(&info.Version, parse.FirstOf(kv, "version_id", "version"))
	setIfEmpty(&info.BasedOn, kv["id_like"])
	setIfEmpty(&info.BuildID, kv["build_id"])
	return true
}

func (c *OSCollector) fromSwVers(ctx context.Context, info *models.OSInfo) bool {
	res, err := c.runner.Run(ctx, "sw_vers")
	if err != nil {
		probe.LogFailure(c.logger, "sw_vers", err)
		return false
	}
	kv := parse.KeyValue(res.Stdout)
	setIfEmpty(&info.Name, kv["productname"])
	setIfEmpty(&info.Version, kv["productversion"])
	setIfEmpty(&info.BuildID, kv["buildversion"])
	if info.Name != "" {
		setIfEmpty(&info.Distribution, strings.TrimSpace(info.Name+" "+info.Version))
	}
	setIfEmpty(&info.BasedOn, "Darwin")
	return true
}

func (c *OSCollector) fromUname(info *models.OSInfo) bool {
	u, err := c.platform.Uname()
	if err != nil {
		probe.LogFailure(c.logger, "uname", err)
		return false
	}
	setIfEmpty(&info.Kernel, u.Sysname)
	setIfEmpty(&info.KernelVersion, u.Release)
	setIfEmpty(&info.Architecture, u.Machine)
	setIfEmpty(&info.Hostname, u.Nodename)
	return true
}

func (c *OSCollector) fromHostInfo(ctx context.Context, info *models.OSInfo) bool {
	if info.Name != "" && info.Version != "" && info.Hostname != "" {
		return false
	}
	hi, err := c.hostInfo(ctx)
	if err != nil || hi == nil {
		c.logger.Debug("gopsutil host info unavailable", zap.Error(err))
		return false
	}
	setIfEmpty(&info.Name, hi.Platform)
	setIfEmpty(&info.Version, hi.PlatformVersion)
	setIfEmpty(&info.BasedOn, hi.PlatformFamily)
	setIfEmpty(&info.Hostname, hi.Hostname)
	setIfEmpty(&info.Architecture, hi.KernelArch)
	return true
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

func fillUnknown(fields ...*string) {
	for _, f := range fields {
		if *f == "" {
			*f = models.Unknown
		}
	}
}
