package python

import (
	"github.com/Guliveer/sysfacts/internal/collector"
	"github.com/Guliveer/sysfacts/internal/lang"
)

// Register adds the python section's collectors to reg, in report order.
func Register(reg *collector.Registry, opts lang.Options) {
	opts = opts.WithDefaults()
	interp := NewInterpreter(opts.Runner)
	logger := opts.Logger
	reg.Register(NewRuntimeCollector(interp, logger.Named("runtime")))
	reg.Register(NewPathsCollector(interp, logger.Named("paths")))
	reg.Register(NewDependenciesCollector(opts.Runner, interp, opts.ProjectRoot, logger.Named("dependencies")))
	reg.Register(NewVirtualEnvCollector(opts.Runner, opts.ProjectRoot, opts.HomeDir,
		opts.Getenv("VIRTUAL_ENV"), logger.Named("virtual_environments")))
}
