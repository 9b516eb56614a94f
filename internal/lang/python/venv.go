package python

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// VirtualEnvCollector finds virtual environments in well-known places
// and probes each with its own interpreter.
type VirtualEnvCollector struct {
	runner     probe.Runner
	searchDirs []string
	active     string
	logger     *zap.Logger
}

// NewVirtualEnvCollector creates a collector searching the children of
// home/.virtualenvs, home/venvs, root and home/Desktop. active is the
// value of $VIRTUAL_ENV, possibly empty.
func NewVirtualEnvCollector(r probe.Runner, root, home, active string, logger *zap.Logger) *VirtualEnvCollector {
	dirs := []string{root}
	if home != "" {
		dirs = []string{
			filepath.Join(home, ".virtualenvs"),
			filepath.Join(home, "venvs"),
			root,
			filepath.Join(home, "Desktop"),
		}
	}
	return &VirtualEnvCollector{runner: r, searchDirs: dirs, active: active, logger: logger}
}

// Name returns the collector identifier.
func (c *VirtualEnvCollector) Name() string { return "virtual_environments" }

// IsAvailable returns true.
func (c *VirtualEnvCollector) IsAvailable() bool { return true }

// Collect returns the active environment, if any, and every other one
// found keyed by path.
func (c *VirtualEnvCollector) Collect(ctx context.Context) (interface{}, error) {
	out := models.VirtualEnvs{Detected: map[string]models.VirtualEnv{}}
	active := cleanPath(c.active)

	for _, p := range c.candidates() {
		env := c.inspect(ctx, p)
		if active != "" && p == active {
			out.Active = &env
			continue
		}
		out.Detected[p] = env
	}
	if out.Active == nil && active != "" && c.isVenv(active) {
		env := c.inspect(ctx, active)
		out.Active = &env
	}

	c.logger.Debug("Virtual environments scanned",
		zap.Bool("active", out.Active != nil),
		zap.Int("detected", len(out.Detected)))
	return out, nil
}

// candidates lists environment directories in search order, each once.
func (c *VirtualEnvCollector) candidates() []string {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range c.searchDirs {
		entries, err := c.runner.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			p := cleanPath(filepath.Join(dir, e))
			if seen[p] || !c.isVenv(p) {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func (c *VirtualEnvCollector) isVenv(dir string) bool {
	return c.runner.Exists(venvPython(dir))
}

// inspect probes one environment. Each sub-probe failure is recorded on
// the record and the others still run.
func (c *VirtualEnvCollector) inspect(ctx context.Context, dir string) models.VirtualEnv {
	env := models.VirtualEnv{
		Path:          dir,
		Name:          filepath.Base(dir),
		PythonVersion: models.NotAvailable,
		PipVersion:    models.NotAvailable,
		Packages:      []models.Package{},
		PipConfig:     map[string]string{},
	}
	py := venvPython(dir)
	var failures []string

	if res, err := c.runner.Run(ctx, py, "--version"); err == nil {
		env.PythonVersion = strings.TrimSpace(strings.TrimPrefix(res.Trimmed(), "Python"))
	} else {
		failures = append(failures, errors.Reason(err))
	}

	p := pip{runner: c.runner, python: py}
	if v, err := p.version(ctx); err == nil {
		env.PipVersion = v
	} else {
		failures = append(failures, errors.Reason(err))
	}
	if pkgs, err := p.list(ctx, false); err == nil {
		env.Packages = pkgs
	} else {
		failures = append(failures, errors.Reason(err))
	}
	if cfg, err := p.config(ctx); err == nil {
		env.PipConfig = cfg
	}

	if len(failures) > 0 {
		env.Error = strings.Join(failures, "; ")
		c.logger.Debug("Virtual environment probe incomplete",
			zap.String("path", dir), zap.String("error", env.Error))
	}
	return env
}

func venvPython(dir string) string {
	return filepath.Join(dir, "bin", "python")
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
