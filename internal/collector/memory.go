// Memory collector: physical and swap figures from gopsutil, rendered in
// binary units.
package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/parse"
)

// MemoryCollector collects RAM and swap usage.
type MemoryCollector struct {
	logger  *zap.Logger
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swap    func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector(logger *zap.Logger) *MemoryCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCollector{
		logger:  logger,
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
	}
}

// Name returns the collector identifier.
func (c *MemoryCollector) Name() string { return "memory" }

// IsAvailable returns true; memory metrics are available on all platforms.
func (c *MemoryCollector) IsAvailable() bool { return true }

// Collect gathers memory usage. Swap failures leave zeroed swap figures.
func (c *MemoryCollector) Collect(ctx context.Context) (interface{}, error) {
	v, err := c.virtual(ctx)
	if err != nil {
		return nil, err
	}
	info := models.MemoryInfo{
		Total:     parse.FormatSizeU(v.Total),
		Available: parse.FormatSizeU(v.Available),
		Used:      parse.FormatSizeU(v.Used),
		Percent:   formatPercent(v.UsedPercent),
		Swap: models.SwapInfo{
			Total:   parse.FormatSize(0),
			Used:    parse.FormatSize(0),
			Free:    parse.FormatSize(0),
			Percent: formatPercent(0),
		},
	}

	s, err := c.swap(ctx)
	if err != nil {
		c.logger.Debug("Swap figures unavailable", zap.Error(err))
		return info, nil
	}
	info.Swap = models.SwapInfo{
		Total:   parse.FormatSizeU(s.Total),
		Used:    parse.FormatSizeU(s.Used),
		Free:    parse.FormatSizeU(s.Free),
		Percent: formatPercent(s.UsedPercent),
	}
	return info, nil
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
