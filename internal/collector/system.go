package collector

import (
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// SystemOptions carries the dependencies of the system section.
type SystemOptions struct {
	Runner       probe.Runner
	Platform     platform.Platform
	ProjectRoot  string
	TopProcesses int
	Logger       *zap.Logger
}

// RegisterSystem registers every host collector on reg, in report order.
func RegisterSystem(reg *Registry, opts SystemOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg.Register(NewOSCollector(opts.Runner, opts.Platform, logger.Named("os")))
	reg.Register(NewMotherboardCollector(opts.Runner, opts.Platform, logger.Named("motherboard")))
	reg.Register(NewCPUCollector(opts.Runner, opts.Platform, logger.Named("cpu")))
	reg.Register(NewGPUCollector(opts.Runner, opts.Platform, logger.Named("gpu")))
	reg.Register(NewMemoryCollector(logger.Named("memory")))
	reg.Register(NewDiskCollector(opts.Runner, logger.Named("disk")))
	reg.Register(NewNetworkCollector(logger.Named("network")))
	reg.Register(NewUptimeCollector(logger.Named("uptime")))
	reg.Register(NewTemperatureCollector(opts.Runner, logger.Named("temperatures")))
	reg.Register(NewUserCollector(opts.Runner, logger.Named("user")))
	reg.Register(NewEnvironmentCollector())
	reg.Register(NewProcessCollector(opts.TopProcesses, logger.Named("processes")))
	reg.Register(NewGitCollector(opts.Runner, opts.ProjectRoot, logger.Named("git")))
}
