// Uptime collector: boot time and load averages from gopsutil. Load
// averages are omitted where the platform cannot report them.
package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
)

// UptimeCollector collects boot time and load.
type UptimeCollector struct {
	logger   *zap.Logger
	bootTime func(ctx context.Context) (uint64, error)
	loadAvg  func(ctx context.Context) (*load.AvgStat, error)
	now      func() time.Time
}

// NewUptimeCollector creates a new uptime collector.
func NewUptimeCollector(logger *zap.Logger) *UptimeCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UptimeCollector{
		logger:   logger,
		bootTime: host.BootTimeWithContext,
		loadAvg:  load.AvgWithContext,
		now:      time.Now,
	}
}

// Name returns the collector identifier.
func (c *UptimeCollector) Name() string { return "uptime" }

// IsAvailable returns true; boot time is available on all platforms.
func (c *UptimeCollector) IsAvailable() bool { return true }

// Collect returns the boot time as RFC3339 UTC plus load averages.
func (c *UptimeCollector) Collect(ctx context.Context) (interface{}, error) {
	bt, err := c.bootTime(ctx)
	if err != nil {
		return nil, err
	}
	boot := time.Unix(int64(bt), 0).UTC()
	info := models.UptimeInfo{BootTime: boot.Format(time.RFC3339)}
	if up := c.now().Sub(boot); up > 0 {
		info.UptimeSeconds = uint64(up / time.Second)
	}

	avg, err := c.loadAvg(ctx)
	if err != nil || avg == nil {
		c.logger.Debug("Load averages unavailable", zap.Error(err))
		return info, nil
	}
	info.LoadAverage = []float64{avg.Load1, avg.Load5, avg.Load15}
	return info, nil
}
