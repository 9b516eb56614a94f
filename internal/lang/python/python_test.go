package python

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/collector"
	"github.com/Guliveer/sysfacts/internal/lang"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe/probetest"
)

const introspectJSON = `{"version": "3.11.4", "implementation": "CPython",
 "executable": "/usr/bin/python3", "filesystem_encoding": "utf-8",
 "default_encoding": "utf-8", "path": ["/usr/lib/python311.zip", "/usr/lib/python3.11"],
 "site_packages": ["/usr/lib/python3/dist-packages"],
 "user_site": "/home/dev/.local/lib/python3.11/site-packages", "pythonpath_env": ""}`

const pipListJSON = `[{"name": "requests", "version": "2.31.0"}, {"name": "Flask", "version": "2.3.2"}]`

const pipOutdatedJSON = `[{"name": "requests", "version": "2.31.0", "latest_version": "2.32.3", "latest_filetype": "wheel"},
 {"name": "Flask", "version": "2.3.2", "latest_version": "3.0.3", "latest_filetype": "wheel"}]`

func scriptedPython() *probetest.Runner {
	return probetest.New().
		On("python3 -c "+introspectScript, introspectJSON).
		On("python3 -m pip list --format=json --disable-pip-version-check", pipListJSON).
		On("python3 -m pip list --format=json --disable-pip-version-check --outdated", pipOutdatedJSON).
		On("python3 -m pip --version", "pip 23.2.1 from /usr/lib/python3/dist-packages/pip (python 3.11)\n").
		On("python3 -m pip config list", "global.index-url='https://pypi.example.org/simple'\n")
}

func TestRuntimeAndPathsShareIntrospection(t *testing.T) {
	r := scriptedPython()
	interp := NewInterpreter(r)

	rt, err := NewRuntimeCollector(interp, zap.NewNop()).Collect(context.Background())
	require.NoError(t, err)
	paths, err := NewPathsCollector(interp, zap.NewNop()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3.11.4", rt.(models.PythonRuntime).Version)
	assert.Equal(t, "CPython", rt.(models.PythonRuntime).Implementation)
	assert.Equal(t, []string{"/usr/lib/python3/dist-packages"}, paths.(models.PythonPaths).SitePackages)

	count := 0
	for _, c := range r.Calls() {
		if c == "python3 -c "+introspectScript {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestInterpreterFallsBackToPython(t *testing.T) {
	r := probetest.New().Install("python", "/usr/bin/python")
	assert.Equal(t, "python", NewInterpreter(r).Command())
	assert.Equal(t, "", NewInterpreter(probetest.New()).Command())
}

func TestRuntimeWithoutInterpreterIsNull(t *testing.T) {
	interp := NewInterpreter(probetest.New())
	v, err := NewRuntimeCollector(interp, zap.NewNop()).Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRuntimeMalformedIntrospectionFails(t *testing.T) {
	r := probetest.New().On("python3 -c "+introspectScript, "Traceback (most recent call last)")
	_, err := NewRuntimeCollector(NewInterpreter(r), zap.NewNop()).Collect(context.Background())
	assert.Error(t, err)
}

func TestDependencies(t *testing.T) {
	r := scriptedPython().File("/proj/requirements.txt", "requests==2.31.0\nflask\n")
	c := NewDependenciesCollector(r, NewInterpreter(r), "/proj", zap.NewNop())

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	deps := v.(models.PythonDependencies)

	assert.True(t, deps.Requirements.Exists)
	assert.Contains(t, deps.Requirements.Content, "requests==2.31.0")
	assert.False(t, deps.Pyproject.Exists)
	require.Len(t, deps.Packages.Installed, 2)
	assert.Equal(t, "Flask", deps.Packages.Installed[0].Name)

	require.Len(t, deps.Packages.Outdated, 2)
	assert.Equal(t, lang.UpdateMajor, deps.Packages.Outdated[0].Update)
	assert.Equal(t, lang.UpdateMinor, deps.Packages.Outdated[1].Update)
	assert.Equal(t, "23.2.1", deps.Pip.Version)
	assert.Equal(t, "https://pypi.example.org/simple", deps.Pip.Config["global.index-url"])
	assert.Empty(t, deps.Error)
}

func TestDependenciesPipFailureIsInline(t *testing.T) {
	r := probetest.New().
		OnExit("python3 -m pip list --format=json --disable-pip-version-check", "", 1)
	c := NewDependenciesCollector(r, NewInterpreter(r), "/proj", zap.NewNop())

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	deps := v.(models.PythonDependencies)
	assert.NotEmpty(t, deps.Error)
	assert.Empty(t, deps.Packages.Installed)
	assert.Equal(t, models.NotAvailable, deps.Pip.Version)
}

func TestDependenciesWithoutInterpreter(t *testing.T) {
	r := probetest.New().File("/proj/pyproject.toml", "[project]\nname = \"x\"\n")
	c := NewDependenciesCollector(r, NewInterpreter(r), "/proj", zap.NewNop())

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	deps := v.(models.PythonDependencies)
	assert.True(t, deps.Pyproject.Exists)
	assert.Empty(t, deps.Pyproject.Content)
	assert.Equal(t, "python interpreter not found", deps.Error)
}

func venvRunner(dir, pyVersion string) *probetest.Runner {
	return probetest.New().
		File(dir+"/bin/python", "").
		On(dir+"/bin/python --version", "Python "+pyVersion+"\n").
		On(dir+"/bin/python -m pip --version", "pip 24.0 from "+dir+"/lib/site-packages/pip (python 3.12)\n").
		On(dir+"/bin/python -m pip list --format=json --disable-pip-version-check", `[{"name":"pytest","version":"8.0.0"}]`).
		On(dir+"/bin/python -m pip config list", "")
}

func TestVirtualEnvActiveAndDetected(t *testing.T) {
	r := venvRunner("/home/dev/.virtualenvs/api", "3.12.1")
	// same name in a different place must not collide
	r.File("/proj/api/bin/python", "").
		On("/proj/api/bin/python --version", "Python 3.10.0")
	r.Dir("/home/dev/.virtualenvs/not-a-venv")

	c := NewVirtualEnvCollector(r, "/proj", "/home/dev", "/home/dev/.virtualenvs/api/", zap.NewNop())
	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	envs := v.(models.VirtualEnvs)

	require.NotNil(t, envs.Active)
	assert.Equal(t, "/home/dev/.virtualenvs/api", envs.Active.Path)
	assert.Equal(t, "3.12.1", envs.Active.PythonVersion)
	assert.Equal(t, "24.0", envs.Active.PipVersion)
	require.Len(t, envs.Active.Packages, 1)
	assert.Empty(t, envs.Active.Error)

	require.Len(t, envs.Detected, 1)
	other := envs.Detected["/proj/api"]
	assert.Equal(t, "api", other.Name)
	assert.Equal(t, "3.10.0", other.PythonVersion)
	assert.Equal(t, models.NotAvailable, other.PipVersion)
	assert.NotEmpty(t, other.Error)
}

func TestVirtualEnvOutsideSearchDirsStillActive(t *testing.T) {
	r := venvRunner("/opt/envs/tools", "3.11.2")
	c := NewVirtualEnvCollector(r, "/proj", "/home/dev", "/opt/envs/tools", zap.NewNop())

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	envs := v.(models.VirtualEnvs)
	require.NotNil(t, envs.Active)
	assert.Equal(t, "tools", envs.Active.Name)
	assert.Empty(t, envs.Detected)
}

func TestVirtualEnvNoneFound(t *testing.T) {
	c := NewVirtualEnvCollector(probetest.New(), "/proj", "/home/dev", "", zap.NewNop())
	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	envs := v.(models.VirtualEnvs)
	assert.Nil(t, envs.Active)
	assert.NotNil(t, envs.Detected)
	assert.Empty(t, envs.Detected)
}

func TestRegisterOrder(t *testing.T) {
	reg := collector.NewRegistry(nil, 0)
	Register(reg, lang.Options{
		Runner:      probetest.New(),
		ProjectRoot: "/proj",
		HomeDir:     "/home/dev",
		Getenv:      func(string) string { return "" },
	})
	assert.Equal(t, []string{"runtime", "paths", "dependencies", "virtual_environments"}, reg.Names())
}
