// Git collector: version-control state of the project root. The fact is
// null when git is not installed or the root is not inside a work tree.
package collector

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// GitCollector collects repository state.
type GitCollector struct {
	runner probe.Runner
	root   string
	logger *zap.Logger
}

// NewGitCollector creates a collector for the repository containing root.
func NewGitCollector(r probe.Runner, root string, logger *zap.Logger) *GitCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitCollector{runner: r, root: root, logger: logger}
}

// Name returns the collector identifier.
func (c *GitCollector) Name() string { return "git" }

// IsAvailable returns true; an absent tool is reported as null, not skipped.
func (c *GitCollector) IsAvailable() bool { return true }

// Collect returns nil when git or the repository is absent. Inside a
// repository each field falls back to N/A on its own.
func (c *GitCollector) Collect(ctx context.Context) (interface{}, error) {
	version, err := c.git(ctx, "--version")
	if err != nil {
		probe.LogFailure(c.logger, "git", err)
		return nil, nil
	}

	inside, err := c.git(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || inside != "true" {
		c.logger.Debug("Not a git work tree", zap.String("root", c.root))
		return nil, nil
	}

	info := models.GitInfo{
		Version:    strings.TrimPrefix(version, "git version "),
		Branch:     c.field(ctx, "branch", "--show-current"),
		Status:     c.field(ctx, "status", "--short"),
		LastCommit: c.field(ctx, "log", "-1", "--pretty=format:%h - %s (%ci)"),
	}
	if info.Branch == "" {
		info.Branch = models.NotAvailable
	}
	return info, nil
}

func (c *GitCollector) git(ctx context.Context, args ...string) (string, error) {
	res, err := c.runner.RunIn(ctx, c.root, "git", args...)
	if err != nil {
		return "", err
	}
	return res.Trimmed(), nil
}

func (c *GitCollector) field(ctx context.Context, args ...string) string {
	out, err := c.git(ctx, args...)
	if err != nil {
		c.logger.Debug("git field unavailable", zap.Strings("args", args), zap.Error(err))
		return models.NotAvailable
	}
	return out
}
