package javascript

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// NodeCollector reports the Node.js runtime and npm's view of the global
// and project package trees.
type NodeCollector struct {
	runner probe.Runner
	root   string
	logger *zap.Logger
}

// NewNodeCollector creates a node collector for the project at root.
func NewNodeCollector(r probe.Runner, root string, logger *zap.Logger) *NodeCollector {
	return &NodeCollector{runner: r, root: root, logger: logger}
}

// Name returns the collector identifier.
func (c *NodeCollector) Name() string { return "node" }

// IsAvailable returns true.
func (c *NodeCollector) IsAvailable() bool { return true }

// Collect reports installed=false without node. npm sub-probes record
// their failures in place.
func (c *NodeCollector) Collect(ctx context.Context) (interface{}, error) {
	version, err := probe.Text(ctx, c.runner, "node", "--version")
	if err != nil {
		probe.LogFailure(c.logger, "node", err)
		if errors.IsRoutine(err) {
			return models.NodeInfo{Installed: false}, nil
		}
		return models.NodeInfo{Installed: false, Error: errors.Reason(err)}, nil
	}
	info := models.NodeInfo{
		Installed:           true,
		Version:             version,
		MissingDependencies: missingDependencies(c.runner, c.root),
	}

	npmVersion, err := probe.Text(ctx, c.runner, "npm", "--version")
	if err != nil {
		probe.LogFailure(c.logger, "npm", err)
		info.NpmVersion = models.NotAvailable
		info.Error = "npm unavailable: " + errors.Reason(err)
		return info, nil
	}
	info.NpmVersion = npmVersion

	info.GlobalPackages = c.packageTree(ctx, "", "list", "-g", "--json", "--depth=0")
	info.LocalPackages = c.packageTree(ctx, c.root, "list", "--json", "--depth=0")

	if data, err := jsonOutput(c.runner.RunIn(ctx, c.root, "npm", "outdated", "--json")); err == nil {
		if outdated, err := parseOutdated(data); err == nil {
			info.Outdated = outdated
		} else {
			probe.LogFailure(c.logger, "npm outdated", err)
		}
	} else {
		probe.LogFailure(c.logger, "npm outdated", err)
	}

	if res, err := c.runner.Run(ctx, "npm", "config", "list", "--json"); err == nil {
		if cfg, err := parseConfig([]byte(res.Trimmed())); err == nil {
			info.NpmConfig = cfg
		}
	} else {
		probe.LogFailure(c.logger, "npm config", err)
	}

	return info, nil
}

// packageTree runs an npm list variant, returning a name-to-version map
// or a failure marker. An empty dir runs in the current directory.
func (c *NodeCollector) packageTree(ctx context.Context, dir string, args ...string) interface{} {
	var (
		res probe.Result
		err error
	)
	if dir == "" {
		res, err = c.runner.Run(ctx, "npm", args...)
	} else {
		res, err = c.runner.RunIn(ctx, dir, "npm", args...)
	}
	data, err := jsonOutput(res, err)
	if err != nil {
		probe.LogFailure(c.logger, "npm list", err)
		return models.Failed(errors.Reason(err))
	}
	tree, err := parsePackageTree(data)
	if err != nil {
		return models.Failed(errors.Reason(err))
	}
	return tree
}
