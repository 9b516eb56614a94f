// Package python collects the Python runtime, its import paths, the
// project's dependency inventory and the virtual environments on disk.
package python

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// interpreterNames are tried in order.
var interpreterNames = []string{"python3", "python"}

// introspectScript prints the interpreter's self-description as JSON.
const introspectScript = `import json, os, platform, site, sys
print(json.dumps({
    "version": platform.python_version(),
    "implementation": platform.python_implementation(),
    "executable": sys.executable,
    "filesystem_encoding": sys.getfilesystemencoding(),
    "default_encoding": sys.getdefaultencoding(),
    "path": [p for p in sys.path if p],
    "site_packages": site.getsitepackages() if hasattr(site, "getsitepackages") else [],
    "user_site": site.getusersitepackages() if hasattr(site, "getusersitepackages") else "",
    "pythonpath_env": os.environ.get("PYTHONPATH", ""),
}))`

type introspection struct {
	Version            string   `json:"version"`
	Implementation     string   `json:"implementation"`
	Executable         string   `json:"executable"`
	FilesystemEncoding string   `json:"filesystem_encoding"`
	DefaultEncoding    string   `json:"default_encoding"`
	Path               []string `json:"path"`
	SitePackages       []string `json:"site_packages"`
	UserSite           string   `json:"user_site"`
	PythonPathEnv      string   `json:"pythonpath_env"`
}

// Interpreter resolves the system interpreter once and caches its
// introspection, so the runtime and paths facts share one invocation.
type Interpreter struct {
	runner probe.Runner

	once   sync.Once
	name   string
	result *introspection
	err    error
}

// NewInterpreter creates a lazily resolved interpreter handle.
func NewInterpreter(r probe.Runner) *Interpreter {
	return &Interpreter{runner: r}
}

// Command returns the interpreter name found on PATH, or "".
func (i *Interpreter) Command() string {
	for _, n := range interpreterNames {
		if probe.Has(i.runner, n) {
			return n
		}
	}
	return ""
}

func (i *Interpreter) introspect(ctx context.Context) (*introspection, error) {
	i.once.Do(func() {
		i.name = i.Command()
		if i.name == "" {
			i.err = errors.New(errors.ErrCodeToolUnavailable, "no python interpreter on PATH")
			return
		}
		res, err := i.runner.Run(ctx, i.name, "-c", introspectScript)
		if err != nil {
			i.err = err
			return
		}
		var out introspection
		if err := json.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &out); err != nil {
			i.err = errors.Wrap(errors.ErrCodeParseFailed, "decoding interpreter introspection", err)
			return
		}
		i.result = &out
	})
	return i.result, i.err
}
