package python

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// RuntimeCollector reports the interpreter version and encodings.
type RuntimeCollector struct {
	interp *Interpreter
	logger *zap.Logger
}

// NewRuntimeCollector creates a runtime collector over interp.
func NewRuntimeCollector(interp *Interpreter, logger *zap.Logger) *RuntimeCollector {
	return &RuntimeCollector{interp: interp, logger: logger}
}

// Name returns the collector identifier.
func (c *RuntimeCollector) Name() string { return "runtime" }

// IsAvailable returns true.
func (c *RuntimeCollector) IsAvailable() bool { return true }

// Collect returns nil when no interpreter is installed.
func (c *RuntimeCollector) Collect(ctx context.Context) (interface{}, error) {
	in, err := c.interp.introspect(ctx)
	if err != nil {
		if errors.IsRoutine(err) {
			probe.LogFailure(c.logger, "python", err)
			return nil, nil
		}
		return nil, err
	}
	return models.PythonRuntime{
		Version:            models.OrUnknown(in.Version),
		Implementation:     models.OrUnknown(in.Implementation),
		Executable:         models.OrUnknown(in.Executable),
		FilesystemEncoding: models.OrUnknown(in.FilesystemEncoding),
		DefaultEncoding:    models.OrUnknown(in.DefaultEncoding),
	}, nil
}

// PathsCollector reports the interpreter's import search paths.
type PathsCollector struct {
	interp *Interpreter
	logger *zap.Logger
}

// NewPathsCollector creates a paths collector over interp.
func NewPathsCollector(interp *Interpreter, logger *zap.Logger) *PathsCollector {
	return &PathsCollector{interp: interp, logger: logger}
}

// Name returns the collector identifier.
func (c *PathsCollector) Name() string { return "paths" }

// IsAvailable returns true.
func (c *PathsCollector) IsAvailable() bool { return true }

// Collect returns nil when no interpreter is installed.
func (c *PathsCollector) Collect(ctx context.Context) (interface{}, error) {
	in, err := c.interp.introspect(ctx)
	if err != nil {
		if errors.IsRoutine(err) {
			return nil, nil
		}
		return nil, err
	}
	paths := models.PythonPaths{
		PythonPath:         in.Path,
		SitePackages:       in.SitePackages,
		UserSitePackages:   in.UserSite,
		PythonPathVariable: in.PythonPathEnv,
	}
	if paths.PythonPath == nil {
		paths.PythonPath = []string{}
	}
	if paths.SitePackages == nil {
		paths.SitePackages = []string{}
	}
	return paths, nil
}
