// Package probe runs external commands and reads pseudo-files on behalf of
// collectors. Absence is routine: a missing executable or file surfaces as a
// TOOL_UNAVAILABLE or NOT_FOUND error that callers treat as "try the next
// source", never as a reason to abort the report.
package probe

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// Result is the captured outcome of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Trimmed returns stdout without surrounding whitespace.
func (r Result) Trimmed() string {
	return strings.TrimSpace(r.Stdout)
}

// Runner is the probe surface collectors depend on. The production
// implementation is Exec; tests use probetest.Runner.
type Runner interface {
	// Run executes name with args and captures its output. A nonzero exit
	// returns the Result together with a TOOL_FAILED error.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunIn is Run with the working directory set to dir.
	RunIn(ctx context.Context, dir, name string, args ...string) (Result, error)

	// LookPath resolves an executable name on PATH.
	LookPath(name string) (string, error)

	// ReadFile returns the whole content of a regular or pseudo-file.
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the entry names of a directory, sorted.
	ReadDir(path string) ([]string, error)

	// Exists reports whether path exists.
	Exists(path string) bool
}

// Text runs a command and returns its trimmed stdout.
func Text(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return res.Trimmed(), nil
}

// FileText reads a file and returns its trimmed content.
func FileText(r Runner, path string) (string, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Has reports whether name resolves on PATH.
func Has(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}

// FirstFile reads the first of paths that can be read, returning its path
// and content. The error of the last attempt is returned when none can.
func FirstFile(r Runner, paths ...string) (string, []byte, error) {
	var lastErr error
	for _, p := range paths {
		data, err := r.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return "", nil, lastErr
}

// LogFailure logs a failed probe at debug level when the absence is
// routine and at warn level otherwise.
func LogFailure(logger *zap.Logger, source string, err error) {
	if errors.IsRoutine(err) {
		logger.Debug("Probe source unavailable", zap.String("source", source), zap.Error(err))
		return
	}
	logger.Warn("Probe source failed", zap.String("source", source), zap.Error(err))
}
