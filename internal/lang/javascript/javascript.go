package javascript

import (
	"github.com/Guliveer/sysfacts/internal/collector"
	"github.com/Guliveer/sysfacts/internal/lang"
)

// Register adds the javascript section's collectors to reg, in report order.
func Register(reg *collector.Registry, opts lang.Options) {
	opts = opts.WithDefaults()
	reg.Register(NewNodeCollector(opts.Runner, opts.ProjectRoot, opts.Logger.Named("node")))
	reg.Register(NewBrowsersCollector(opts.Runner, opts.Platform, opts.Logger.Named("browsers")))
}
