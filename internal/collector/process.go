// Top processes collector: the most CPU-intensive processes. Uses gopsutil
// for cross-platform process listing.
package collector

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
)

// DefaultTopProcesses is how many processes the report keeps.
const DefaultTopProcesses = 10

// processHandle is the subset of *process.Process the collector reads.
type processHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	CPUPercentWithContext(ctx context.Context) (float64, error)
	IsRunningWithContext(ctx context.Context) (bool, error)
}

type processEntry struct {
	pid    int32
	handle processHandle
}

// ProcessSample is one process as read during enumeration. CPU is nil
// when the reading failed for a process that is still running.
type ProcessSample struct {
	PID  int32
	Name string
	CPU  *float64
}

// ProcessCollector collects the top N processes by CPU usage.
type ProcessCollector struct {
	topN   int
	logger *zap.Logger
	list   func(ctx context.Context) ([]processEntry, error)
}

// NewProcessCollector creates a collector returning the top N processes
// sorted by CPU usage descending.
func NewProcessCollector(topN int, logger *zap.Logger) *ProcessCollector {
	if topN <= 0 {
		topN = DefaultTopProcesses
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessCollector{topN: topN, logger: logger, list: listProcesses}
}

func listProcesses(ctx context.Context) ([]processEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]processEntry, 0, len(procs))
	for _, p := range procs {
		out = append(out, processEntry{pid: p.Pid, handle: p})
	}
	return out, nil
}

// Name returns the collector identifier.
func (c *ProcessCollector) Name() string { return "processes" }

// IsAvailable returns true; process listing is available on all platforms.
func (c *ProcessCollector) IsAvailable() bool { return true }

// Collect samples every process once. A process whose name cannot be read
// (it exited, or access was denied) is skipped. A failed CPU reading on a
// process that is still running counts as 0.
func (c *ProcessCollector) Collect(ctx context.Context) (interface{}, error) {
	entries, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	samples := make([]ProcessSample, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		name, err := e.handle.NameWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		s := ProcessSample{PID: e.pid, Name: name}
		if pct, err := e.handle.CPUPercentWithContext(ctx); err == nil {
			s.CPU = &pct
		} else if vanished(ctx, e.handle, err) {
			skipped++
			continue
		}
		samples = append(samples, s)
	}

	c.logger.Debug("Processes sampled",
		zap.Int("sampled", len(samples)),
		zap.Int("skipped", skipped))
	return TopByCPU(samples, c.topN), nil
}

func vanished(ctx context.Context, h processHandle, err error) bool {
	if stderrors.Is(err, process.ErrorProcessNotRunning) {
		return true
	}
	running, rerr := h.IsRunningWithContext(ctx)
	return rerr == nil && !running
}

// TopByCPU returns the k samples with the highest CPU usage, descending.
// Missing readings count as 0 and ties keep enumeration order.
func TopByCPU(samples []ProcessSample, k int) []models.ProcessInfo {
	infos := make([]models.ProcessInfo, 0, len(samples))
	for _, s := range samples {
		pct := 0.0
		if s.CPU != nil {
			pct = *s.CPU
		}
		infos = append(infos, models.ProcessInfo{PID: s.PID, Name: s.Name, CPUPercent: pct})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CPUPercent > infos[j].CPUPercent
	})

	if k >= 0 && len(infos) > k {
		infos = infos[:k]
	}
	return infos
}
