// Package output writes the report document to disk. The file is written
// to a temporary name in the target directory and renamed into place, so a
// reader never observes a partial report.
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
)

// DefaultFilename is the report file name when none is configured.
const DefaultFilename = "system_data.json"

// Writer stores reports in one directory.
type Writer struct {
	dir    string
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a writer for dir. The directory is created on first write.
func New(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the target directory.
func (w *Writer) Dir() string { return w.dir }

// Write serializes report with two-space indentation to dir/filename,
// replacing any previous file. Every failure is a FATAL_IO error.
func (w *Writer) Write(filename string, report models.Report) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if filename == "" {
		filename = DefaultFilename
	}
	path := filepath.Join(w.dir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFatalIO, "encoding report", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeFatalIO, "creating output directory", err,
			map[string]any{"dir": w.dir})
	}

	tmp, err := os.CreateTemp(w.dir, "."+filename+".*.tmp")
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeFatalIO, "creating temporary file", err,
			map[string]any{"dir": w.dir})
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", errors.Wrap(errors.ErrCodeFatalIO, "writing report", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errors.Wrap(errors.ErrCodeFatalIO, "closing report", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		w.logger.Debug("Could not set report permissions", zap.Error(err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", errors.WrapWithContext(errors.ErrCodeFatalIO, "replacing report", err,
			map[string]any{"path": path})
	}

	w.logger.Debug("Report written", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}
