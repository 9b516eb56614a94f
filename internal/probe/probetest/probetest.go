// Package probetest provides a scripted probe.Runner for tests.
package probetest

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/probe"
)

type scripted struct {
	res probe.Result
	err error
}

// Runner answers commands, files and directory listings from scripts.
// Anything not scripted behaves as absent: commands return
// TOOL_UNAVAILABLE and files return NOT_FOUND.
type Runner struct {
	mu       sync.Mutex
	commands map[string]scripted
	files    map[string]string
	dirs     map[string][]string
	paths    map[string]string
	calls    []string
}

var _ probe.Runner = (*Runner)(nil)

// New returns an empty runner where nothing is installed.
func New() *Runner {
	return &Runner{
		commands: make(map[string]scripted),
		files:    make(map[string]string),
		dirs:     make(map[string][]string),
		paths:    make(map[string]string),
	}
}

// On scripts a successful command. cmd is the name followed by its
// space-separated arguments, e.g. "lsblk --json".
func (r *Runner) On(cmd, stdout string) *Runner {
	return r.OnResult(cmd, probe.Result{Stdout: stdout}, nil)
}

// OnExit scripts a command that exits with code after writing stdout.
func (r *Runner) OnExit(cmd, stdout string, code int) *Runner {
	err := errors.NewWithContext(errors.ErrCodeToolFailed,
		fmt.Sprintf("%s exited with status %d", commandName(cmd), code),
		map[string]any{"exit_code": code})
	return r.OnResult(cmd, probe.Result{Stdout: stdout, ExitCode: code}, err)
}

// OnExitIn is OnExit for a command run in a specific working directory.
func (r *Runner) OnExitIn(dir, cmd, stdout string, code int) *Runner {
	return r.OnExit(dir+"$ "+cmd, stdout, code)
}

// OnError scripts a command that fails with err.
func (r *Runner) OnError(cmd string, err error) *Runner {
	return r.OnResult(cmd, probe.Result{}, err)
}

// OnIn scripts a command run in a specific working directory.
func (r *Runner) OnIn(dir, cmd, stdout string) *Runner {
	return r.OnResult(dir+"$ "+cmd, probe.Result{Stdout: stdout}, nil)
}

// OnResult scripts a command with an explicit result and error.
func (r *Runner) OnResult(cmd string, res probe.Result, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = scripted{res: res, err: err}
	name := commandName(cmd)
	if _, ok := r.paths[name]; !ok {
		r.paths[name] = "/usr/bin/" + name
	}
	return r
}

// commandName returns the executable of a scripted command key.
func commandName(cmd string) string {
	if i := strings.Index(cmd, "$ "); i >= 0 {
		cmd = cmd[i+2:]
	}
	return strings.Fields(cmd)[0]
}

// Install makes name resolvable on PATH without scripting any command.
func (r *Runner) Install(name, at string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[name] = at
	return r
}

// File scripts a readable file. Parent directories become listable.
func (r *Runner) File(p, content string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[p] = content
	r.addParents(p)
	return r
}

// Dir scripts an existing directory.
func (r *Runner) Dir(p string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dirs[p]; !ok {
		r.dirs[p] = nil
	}
	r.addParents(p)
	return r
}

func (r *Runner) addParents(p string) {
	for child := path.Clean(p); ; {
		parent := path.Dir(child)
		if parent == child {
			return
		}
		base := path.Base(child)
		found := false
		for _, e := range r.dirs[parent] {
			if e == base {
				found = true
				break
			}
		}
		if !found {
			r.dirs[parent] = append(r.dirs[parent], base)
		}
		child = parent
	}
}

// Calls returns every command issued so far, in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Run implements probe.Runner.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (probe.Result, error) {
	return r.RunIn(ctx, "", name, args...)
}

// RunIn implements probe.Runner. A directory-specific script takes
// precedence over a plain one.
func (r *Runner) RunIn(_ context.Context, dir, name string, args ...string) (probe.Result, error) {
	cmd := strings.TrimSpace(name + " " + strings.Join(args, " "))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)

	if dir != "" {
		if s, ok := r.commands[dir+"$ "+cmd]; ok {
			return s.res, s.err
		}
	}
	if s, ok := r.commands[cmd]; ok {
		return s.res, s.err
	}
	return probe.Result{}, errors.New(errors.ErrCodeToolUnavailable, name+" not found")
}

// LookPath implements probe.Runner.
func (r *Runner) LookPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.paths[name]; ok {
		return p, nil
	}
	return "", errors.New(errors.ErrCodeToolUnavailable, name+" not found")
}

// ReadFile implements probe.Runner.
func (r *Runner) ReadFile(p string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if content, ok := r.files[p]; ok {
		return []byte(content), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, p+" does not exist")
}

// ReadDir implements probe.Runner.
func (r *Runner) ReadDir(p string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, ok := r.dirs[path.Clean(p)]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, p+" does not exist")
	}
	out := append([]string(nil), entries...)
	sort.Strings(out)
	return out, nil
}

// Exists implements probe.Runner.
func (r *Runner) Exists(p string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p = path.Clean(p)
	if _, ok := r.files[p]; ok {
		return true
	}
	_, ok := r.dirs[p]
	return ok
}
