package models

// Package is one installed or outdated package reported by a package manager.
type Package struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version,omitempty"`
	Update        string `json:"update,omitempty"`
}

// PythonRuntime is the interpreter's self-description.
type PythonRuntime struct {
	Version            string `json:"version"`
	Implementation     string `json:"implementation"`
	Executable         string `json:"executable"`
	FilesystemEncoding string `json:"filesystem_encoding"`
	DefaultEncoding    string `json:"default_encoding"`
}

// PythonPaths is the interpreter's import search configuration.
type PythonPaths struct {
	PythonPath         []string `json:"pythonpath"`
	SitePackages       []string `json:"site_packages"`
	UserSitePackages   string   `json:"user_site_packages"`
	PythonPathVariable string   `json:"pythonpath_env"`
}

// FileManifest reports whether a dependency manifest exists and its content.
type FileManifest struct {
	Exists  bool   `json:"exists"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// PackageSet groups installed and outdated packages.
type PackageSet struct {
	Installed []Package `json:"installed"`
	Outdated  []Package `json:"outdated"`
}

// PipInfo is pip's own version and configuration.
type PipInfo struct {
	Version string            `json:"version"`
	Config  map[string]string `json:"config"`
}

// PythonDependencies is the project's Python dependency inventory.
type PythonDependencies struct {
	Requirements FileManifest `json:"requirements"`
	Pyproject    FileManifest `json:"pyproject"`
	Packages     PackageSet   `json:"packages"`
	Pip          PipInfo      `json:"pip"`
	Error        string       `json:"error,omitempty"`
}

// VirtualEnv is a Python virtual environment found on disk. Environments
// are identified by Path; Name is informational and may collide.
type VirtualEnv struct {
	Path          string            `json:"path"`
	Name          string            `json:"name"`
	PythonVersion string            `json:"python_version"`
	PipVersion    string            `json:"pip_version"`
	Packages      []Package         `json:"packages"`
	PipConfig     map[string]string `json:"pip_config"`
	Error         string            `json:"error,omitempty"`
}

// VirtualEnvs separates the active environment from the others.
type VirtualEnvs struct {
	Active   *VirtualEnv           `json:"active"`
	Detected map[string]VirtualEnv `json:"detected"`
}

// MissingDependencies is the manifest-versus-node_modules diff. Either
// Recommendation or Status is set, never both.
type MissingDependencies struct {
	Count          int      `json:"count"`
	Packages       []string `json:"packages"`
	Recommendation string   `json:"recommendation,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// NodeInfo is the Node.js runtime and npm inventory.
type NodeInfo struct {
	Installed           bool                   `json:"installed"`
	Version             string                 `json:"version,omitempty"`
	NpmVersion          string                 `json:"npm_version,omitempty"`
	GlobalPackages      interface{}            `json:"global_packages,omitempty"`
	LocalPackages       interface{}            `json:"local_packages,omitempty"`
	MissingDependencies interface{}            `json:"missing_dependencies,omitempty"`
	Outdated            []Package              `json:"outdated,omitempty"`
	NpmConfig           map[string]interface{} `json:"npm_config,omitempty"`
	Error               string                 `json:"error,omitempty"`
}

// Browser is one entry of the platform browser catalog. Path is empty and
// Version is "Unknown" when the browser is not installed.
type Browser struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
	Path      string `json:"path"`
	Version   string `json:"version"`
}
