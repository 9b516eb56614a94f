package probe

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
)

const (
	// DefaultTimeout bounds a single command when none is configured.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxFileSize caps how much of a file ReadFile will accept.
	DefaultMaxFileSize int64 = 4 << 20
)

// Exec is the Runner backed by os/exec and the local filesystem.
type Exec struct {
	timeout     time.Duration
	maxFileSize int64
	logger      *zap.Logger
}

// Option configures an Exec runner.
type Option func(*Exec)

// WithTimeout sets the per-command deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Exec) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxFileSize sets the largest file ReadFile accepts.
func WithMaxFileSize(n int64) Option {
	return func(e *Exec) {
		if n > 0 {
			e.maxFileSize = n
		}
	}
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exec) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExec creates a runner with the given options applied over defaults.
func NewExec(opts ...Option) *Exec {
	e := &Exec{
		timeout:     DefaultTimeout,
		maxFileSize: DefaultMaxFileSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes name in the current working directory.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return e.RunIn(ctx, "", name, args...)
}

// RunIn executes name in dir under the configured timeout. Output is
// captured with LC_ALL=C so header rows stay in English.
func (e *Exec) RunIn(ctx context.Context, dir, name string, args ...string) (Result, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		e.logger.Debug("Tool not available", zap.String("tool", name))
		return Result{}, errors.Wrap(errors.ErrCodeToolUnavailable, name+" not found", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if runErr == nil {
		e.logger.Debug("Probe finished",
			zap.String("tool", name),
			zap.Strings("args", args),
			zap.Duration("took", time.Since(start)))
		return res, nil
	}

	if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Warn("Probe timed out",
			zap.String("tool", name),
			zap.Duration("timeout", e.timeout))
		return res, errors.WrapWithContext(errors.ErrCodeTimeout,
			fmt.Sprintf("%s timed out", name), runErr,
			map[string]any{"timeout": e.timeout.String()})
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		e.logger.Debug("Probe exited nonzero",
			zap.String("tool", name),
			zap.Int("exit_code", res.ExitCode))
		return res, errors.NewWithContext(errors.ErrCodeToolFailed,
			fmt.Sprintf("%s exited with status %d", name, res.ExitCode),
			map[string]any{"exit_code": res.ExitCode, "stderr": res.Stderr})
	}

	return res, errors.Wrap(errors.ErrCodeToolUnavailable, name+" could not be started", runErr)
}

// LookPath resolves name on PATH.
func (e *Exec) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeToolUnavailable, name+" not found", err)
	}
	return p, nil
}

// ReadFile reads at most the configured maximum from path. Pseudo-files
// report a zero size, so the limit is enforced while reading.
func (e *Exec) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fsError(path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, e.maxFileSize+1))
	if err != nil {
		return nil, fsError(path, err)
	}
	if int64(len(data)) > e.maxFileSize {
		return nil, errors.NewWithContext(errors.ErrCodeParseFailed,
			fmt.Sprintf("%s exceeds %d bytes", path, e.maxFileSize),
			map[string]any{"path": path})
	}
	return data, nil
}

// ReadDir lists the entry names of path.
func (e *Exec) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fsError(path, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether path exists.
func (e *Exec) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fsError(path string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrap(errors.ErrCodeNotFound, path+" does not exist", err)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.Wrap(errors.ErrCodePermissionDenied, path+" is not readable", err)
	default:
		return errors.Wrap(errors.ErrCodeNotFound, path+" could not be read", err)
	}
}
