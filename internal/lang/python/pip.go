package python

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/lang"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// pip drives "<python> -m pip" for one interpreter, so a virtual
// environment's pip is always the one queried.
type pip struct {
	runner probe.Runner
	python string
}

type pipListEntry struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version"`
}

func (p pip) run(ctx context.Context, args ...string) (probe.Result, error) {
	return p.runner.Run(ctx, p.python, append([]string{"-m", "pip"}, args...)...)
}

// version parses "pip 23.2.1 from /usr/lib/python3/dist-packages/pip (python 3.11)".
func (p pip) version(ctx context.Context) (string, error) {
	res, err := p.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(res.Stdout)
	if len(fields) < 2 || fields[0] != "pip" {
		return "", errors.New(errors.ErrCodeParseFailed, "unexpected pip --version output")
	}
	return fields[1], nil
}

func (p pip) list(ctx context.Context, outdated bool) ([]models.Package, error) {
	args := []string{"list", "--format=json", "--disable-pip-version-check"}
	if outdated {
		args = append(args, "--outdated")
	}
	res, err := p.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parsePipList(res.Stdout)
}

func (p pip) config(ctx context.Context) (map[string]string, error) {
	res, err := p.run(ctx, "config", "list")
	if err != nil {
		return nil, err
	}
	return parsePipConfig(res.Stdout), nil
}

// parsePipList decodes pip list --format=json, annotating outdated
// entries with their update kind. Packages are sorted by name.
func parsePipList(text string) ([]models.Package, error) {
	var entries []pipListEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding pip list", err)
	}
	out := make([]models.Package, 0, len(entries))
	for _, e := range entries {
		pkg := models.Package{Name: e.Name, Version: e.Version, LatestVersion: e.LatestVersion}
		if e.LatestVersion != "" {
			pkg.Update = lang.UpdateKind(e.Version, e.LatestVersion)
		}
		out = append(out, pkg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// parsePipConfig reads "global.index-url='https://...'" lines.
func parsePipConfig(text string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || k == "" {
			continue
		}
		out[k] = parse.Unquote(strings.TrimSpace(v))
	}
	return out
}
