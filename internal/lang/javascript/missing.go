package javascript

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

const (
	manifestFile = "package.json"
	modulesDir   = "node_modules"

	// NoManifest is reported instead of a diff when the project root has
	// no package.json.
	NoManifest = "No package.json found"

	installRecommendation = "Run 'npm install' to install missing packages"
	allInstalled          = "All dependencies are installed"
)

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DeclaredDependencies returns the sorted union of a manifest's
// dependencies and devDependencies.
func DeclaredDependencies(manifest []byte) ([]string, error) {
	var m packageManifest
	if err := json.Unmarshal(manifest, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "decoding package.json", err)
	}
	seen := make(map[string]bool, len(m.Dependencies)+len(m.DevDependencies))
	for name := range m.Dependencies {
		seen[name] = true
	}
	for name := range m.DevDependencies {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DiffMissing reports the declared packages for which installed returns
// false. Packages keep the order of the declared slice, which is
// alphabetical when it comes from DeclaredDependencies.
func DiffMissing(declared []string, installed func(name string) bool) models.MissingDependencies {
	missing := make([]string, 0)
	for _, name := range declared {
		if !installed(name) {
			missing = append(missing, name)
		}
	}
	out := models.MissingDependencies{Count: len(missing), Packages: missing}
	if len(missing) > 0 {
		out.Recommendation = installRecommendation
	} else {
		out.Status = allInstalled
	}
	return out
}

// missingDependencies diffs root/package.json against root/node_modules.
// The result is NoManifest, a MissingDependencies, or a failure marker.
func missingDependencies(r probe.Runner, root string) interface{} {
	data, err := r.ReadFile(filepath.Join(root, manifestFile))
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return NoManifest
		}
		return models.Failed(errors.Reason(err))
	}
	declared, err := DeclaredDependencies(data)
	if err != nil {
		return models.Failed(errors.Reason(err))
	}
	return DiffMissing(declared, func(name string) bool {
		return r.Exists(filepath.Join(root, modulesDir, name))
	})
}
