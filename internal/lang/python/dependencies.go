package python

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const (
	requirementsFile = "requirements.txt"
	pyprojectFile    = "pyproject.toml"
)

// DependenciesCollector inventories the project's manifests and the
// packages installed for the system interpreter.
type DependenciesCollector struct {
	runner probe.Runner
	interp *Interpreter
	root   string
	logger *zap.Logger
}

// NewDependenciesCollector creates a dependencies collector for root.
func NewDependenciesCollector(r probe.Runner, interp *Interpreter, root string, logger *zap.Logger) *DependenciesCollector {
	return &DependenciesCollector{runner: r, interp: interp, root: root, logger: logger}
}

// Name returns the collector identifier.
func (c *DependenciesCollector) Name() string { return "dependencies" }

// IsAvailable returns true.
func (c *DependenciesCollector) IsAvailable() bool { return true }

// Collect never fails as a whole: pip failures land in the error field.
func (c *DependenciesCollector) Collect(ctx context.Context) (interface{}, error) {
	deps := models.PythonDependencies{
		Requirements: c.manifest(requirementsFile, true),
		Pyproject:    c.manifest(pyprojectFile, false),
		Packages:     models.PackageSet{Installed: []models.Package{}, Outdated: []models.Package{}},
		Pip:          models.PipInfo{Version: models.NotAvailable, Config: map[string]string{}},
	}

	py := c.interp.Command()
	if py == "" {
		deps.Error = "python interpreter not found"
		return deps, nil
	}
	p := pip{runner: c.runner, python: py}

	installed, err := p.list(ctx, false)
	if err != nil {
		probe.LogFailure(c.logger, "pip list", err)
		deps.Error = errors.Reason(err)
		return deps, nil
	}
	deps.Packages.Installed = installed

	if outdated, err := p.list(ctx, true); err == nil {
		deps.Packages.Outdated = outdated
	} else {
		probe.LogFailure(c.logger, "pip list --outdated", err)
	}
	if v, err := p.version(ctx); err == nil {
		deps.Pip.Version = v
	}
	if cfg, err := p.config(ctx); err == nil {
		deps.Pip.Config = cfg
	}

	c.logger.Debug("Python packages listed",
		zap.Int("installed", len(deps.Packages.Installed)),
		zap.Int("outdated", len(deps.Packages.Outdated)))
	return deps, nil
}

func (c *DependenciesCollector) manifest(name string, withContent bool) models.FileManifest {
	p := filepath.Join(c.root, name)
	m := models.FileManifest{Path: p}
	data, err := c.runner.ReadFile(p)
	if err != nil {
		return m
	}
	m.Exists = true
	if withContent {
		m.Content = string(data)
	}
	return m
}
