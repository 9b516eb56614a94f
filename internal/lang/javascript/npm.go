// Package javascript collects the Node.js runtime with its npm package
// inventory, and the web browsers installed on the host.
package javascript

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/lang"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// npmTree is the subset of "npm list --json" output that is reported.
type npmTree struct {
	Name         string                    `json:"name"`
	Version      string                    `json:"version"`
	Dependencies map[string]npmTreeVersion `json:"dependencies"`
}

type npmTreeVersion struct {
	Version string `json:"version"`
	Missing bool   `json:"missing"`
}

type npmOutdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// jsonOutput returns stdout of a command that may exit 1 while still
// printing a usable JSON document, as npm list and npm outdated do.
func jsonOutput(res probe.Result, err error) ([]byte, error) {
	out := []byte(strings.TrimSpace(res.Stdout))
	if err == nil {
		return out, nil
	}
	if errors.HasCode(err, errors.ErrCodeToolFailed) && len(out) > 0 && (out[0] == '{' || out[0] == '[') {
		return out, nil
	}
	return nil, err
}

// parsePackageTree maps package names to versions from npm list output.
// Packages npm reports as missing have no version and are left out.
func parsePackageTree(data []byte) (map[string]string, error) {
	var tree npmTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding npm list", err)
	}
	out := make(map[string]string, len(tree.Dependencies))
	for name, dep := range tree.Dependencies {
		if dep.Missing || dep.Version == "" {
			continue
		}
		out[name] = dep.Version
	}
	return out, nil
}

// parseOutdated decodes npm outdated --json, sorted by name.
func parseOutdated(data []byte) ([]models.Package, error) {
	if len(data) == 0 {
		return []models.Package{}, nil
	}
	var entries map[string]npmOutdatedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding npm outdated", err)
	}
	out := make([]models.Package, 0, len(entries))
	for name, e := range entries {
		current := e.Current
		if current == "" {
			current = models.NotAvailable
		}
		out = append(out, models.Package{
			Name:          name,
			Version:       current,
			LatestVersion: e.Latest,
			Update:        lang.UpdateKind(current, e.Latest),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func parseConfig(data []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding npm config", err)
	}
	return out, nil
}
