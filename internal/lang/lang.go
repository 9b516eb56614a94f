// Package lang holds what the language-ecosystem collectors share: their
// dependencies and the classification of available package updates.
package lang

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/Guliveer/sysfacts/internal/platform"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// Options carries the dependencies of an ecosystem section.
type Options struct {
	Runner      probe.Runner
	Platform    platform.Platform
	ProjectRoot string
	HomeDir     string
	Getenv      func(string) string
	Logger      *zap.Logger
}

// WithDefaults fills unset fields from the process environment.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.HomeDir == "" {
		o.HomeDir, _ = os.UserHomeDir()
	}
	if o.ProjectRoot == "" {
		o.ProjectRoot = "."
	}
	return o
}

// Update kinds reported for outdated packages.
const (
	UpdateMajor   = "major"
	UpdateMinor   = "minor"
	UpdatePatch   = "patch"
	UpdateNone    = "none"
	UpdateUnknown = "unknown"
)

// UpdateKind classifies the step from current to latest. Versions are
// reduced to their leading numeric MAJOR.MINOR.PATCH before comparison, so
// Python post-releases and npm ranges still classify.
func UpdateKind(current, latest string) string {
	c, l := canonicalVersion(current), canonicalVersion(latest)
	if c == "" || l == "" {
		return UpdateUnknown
	}
	switch {
	case semver.Compare(l, c) <= 0:
		return UpdateNone
	case semver.Major(c) != semver.Major(l):
		return UpdateMajor
	case semver.MajorMinor(c) != semver.MajorMinor(l):
		return UpdateMinor
	default:
		return UpdatePatch
	}
}

func canonicalVersion(v string) string {
	v = strings.TrimLeft(strings.TrimSpace(v), "v^~=<>")
	end := 0
	for end < len(v) && (v[end] == '.' || (v[end] >= '0' && v[end] <= '9')) {
		end++
	}
	core := strings.Trim(v[:end], ".")
	if core == "" {
		return ""
	}
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.Canonical("v" + strings.Join(parts, "."))
}
