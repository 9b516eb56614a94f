package javascript

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"howett.net/plist"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

var versionPattern = regexp.MustCompile(`\d+(\.\d+)+`)

// bundleInfo is the part of an app bundle's Contents/Info.plist we read.
type bundleInfo struct {
	ShortVersion string `plist:"CFBundleShortVersionString"`
	Version      string `plist:"CFBundleVersion"`
}

// BrowsersCollector reports every browser of the platform catalog, whether
// it is installed and, if so, its version.
type BrowsersCollector struct {
	runner   probe.Runner
	platform platform.Platform
	logger   *zap.Logger
}

// NewBrowsersCollector creates a browsers collector.
func NewBrowsersCollector(r probe.Runner, p platform.Platform, logger *zap.Logger) *BrowsersCollector {
	return &BrowsersCollector{runner: r, platform: p, logger: logger}
}

// Name returns the collector identifier.
func (c *BrowsersCollector) Name() string { return "browsers" }

// IsAvailable reports whether a platform catalog exists.
func (c *BrowsersCollector) IsAvailable() bool { return c.platform != nil }

// Collect returns one record per catalog entry, in catalog order.
func (c *BrowsersCollector) Collect(ctx context.Context) (interface{}, error) {
	out := make([]models.Browser, 0)
	installed := 0
	for _, spec := range c.platform.Browsers() {
		var (
			b  models.Browser
			ok bool
		)
		if spec.AppBundle != "" {
			b, ok = c.fromBundle(ctx, spec)
		} else {
			b, ok = c.fromPath(ctx, spec)
		}
		if !ok {
			b = models.Browser{Name: spec.Name, Version: models.Unknown}
		} else {
			installed++
		}
		out = append(out, b)
	}
	c.logger.Debug("Browsers probed", zap.Int("catalog", len(out)), zap.Int("installed", installed))
	return out, nil
}

func (c *BrowsersCollector) fromPath(ctx context.Context, spec platform.BrowserSpec) (models.Browser, bool) {
	for _, exe := range spec.Executables {
		p, err := c.runner.LookPath(exe)
		if err != nil {
			continue
		}
		b := models.Browser{Name: spec.Name, Installed: true, Path: p, Version: models.Unknown}
		args := spec.VersionArgs
		if len(args) == 0 {
			args = []string{"--version"}
		}
		res, err := c.runner.Run(ctx, exe, args...)
		if err != nil {
			probe.LogFailure(c.logger, exe, err)
			return b, true
		}
		if v := extractVersion(res.Stdout, spec.VersionPrefix); v != "" {
			b.Version = v
		}
		return b, true
	}
	return models.Browser{}, false
}

func (c *BrowsersCollector) fromBundle(ctx context.Context, spec platform.BrowserSpec) (models.Browser, bool) {
	if !c.runner.Exists(spec.AppBundle) {
		return models.Browser{}, false
	}
	b := models.Browser{Name: spec.Name, Installed: true, Path: spec.AppBundle, Version: models.Unknown}

	if spec.BundleBinary != "" {
		bin := filepath.Join(spec.AppBundle, spec.BundleBinary)
		if res, err := c.runner.Run(ctx, bin, "--version"); err == nil {
			if v := extractVersion(res.Stdout, ""); v != "" {
				b.Version = v
				return b, true
			}
		} else {
			probe.LogFailure(c.logger, spec.Name, err)
		}
	}

	v, err := bundleVersion(c.runner, spec.AppBundle)
	if err != nil {
		probe.LogFailure(c.logger, spec.Name+" Info.plist", err)
		return b, true
	}
	b.Version = v
	return b, true
}

// bundleVersion reads the marketing version from an app bundle.
func bundleVersion(r probe.Runner, bundle string) (string, error) {
	data, err := r.ReadFile(filepath.Join(bundle, "Contents", "Info.plist"))
	if err != nil {
		return "", err
	}
	var info bundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return "", errors.Wrap(errors.ErrCodeParseFailed, "decoding Info.plist", err)
	}
	if info.ShortVersion != "" {
		return info.ShortVersion, nil
	}
	if info.Version != "" {
		return info.Version, nil
	}
	return "", errors.New(errors.ErrCodeNotFound, "Info.plist has no version")
}

// extractVersion finds a dotted version number in output. With a prefix,
// only the first line starting with it (case-insensitively) is searched.
func extractVersion(output, prefix string) string {
	if prefix != "" {
		found := false
		for _, line := range strings.Split(output, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(strings.ToLower(line), strings.ToLower(prefix)) {
				output, found = line[len(prefix):], true
				break
			}
		}
		if !found {
			return ""
		}
	}
	return versionPattern.FindString(output)
}
