// Package snapshot runs the enabled collector groups once and assembles
// their sections into the report. Groups run one after another; the
// collectors inside a group run concurrently under the group's Registry.
package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/collector"
	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/output"
)

// Section keys of the report.
const (
	GroupSystem     = "system"
	GroupPython     = "python"
	GroupJavaScript = "javascript"
)

// RegisterFunc adds a group's collectors to a registry.
type RegisterFunc func(reg *collector.Registry)

// Groups holds the registration function of each group. A nil function
// disables its group, which is then reported as null.
type Groups struct {
	System     RegisterFunc
	Python     RegisterFunc
	JavaScript RegisterFunc
}

// Snapshotter produces reports.
type Snapshotter struct {
	groups      Groups
	concurrency int
	logger      *zap.Logger
}

// New creates a Snapshotter running at most concurrency collectors of a
// group at a time.
func New(groups Groups, concurrency int, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{groups: groups, concurrency: concurrency, logger: logger}
}

// Collect runs every enabled group and returns the report. It never
// fails: collector failures are already confined to their own facts.
func (s *Snapshotter) Collect(ctx context.Context) models.Report {
	return models.Report{
		System:     s.collect(ctx, GroupSystem, s.groups.System),
		Python:     s.collect(ctx, GroupPython, s.groups.Python),
		JavaScript: s.collect(ctx, GroupJavaScript, s.groups.JavaScript),
	}
}

func (s *Snapshotter) collect(ctx context.Context, name string, register RegisterFunc) models.Section {
	if register == nil {
		s.logger.Info("Collector group disabled", zap.String("group", name))
		return nil
	}
	logger := s.logger.With(zap.String("group", name))
	reg := collector.NewRegistry(logger, s.concurrency)
	register(reg)

	start := time.Now()
	section := reg.CollectAll(ctx)

	failed, absent := 0, 0
	for _, v := range section {
		switch v.(type) {
		case nil:
			absent++
		case models.CollectionFailed:
			failed++
		}
	}
	logger.Info("Collected group",
		zap.Int("facts", len(section)),
		zap.Int("failed", failed),
		zap.Int("null", absent),
		zap.Duration("took", time.Since(start)))
	return section
}

// Run collects a report and writes it through w, returning the written
// path. A run whose context ends before collection finishes writes
// nothing and returns COLLECTION_FAILED, so an earlier report is kept.
// Otherwise the only error is a FATAL_IO from the writer.
func (s *Snapshotter) Run(ctx context.Context, w *output.Writer, filename string) (string, error) {
	report := s.Collect(ctx)
	if err := ctx.Err(); err != nil {
		s.logger.Warn("Run aborted, report not written", zap.Error(err))
		return "", errors.Wrap(errors.ErrCodeCollectionFailed, "run aborted", err)
	}
	path, err := w.Write(filename, report)
	if err != nil {
		return "", err
	}
	s.logger.Info("Report written", zap.String("path", path))
	return path, nil
}
