// Temperature collector: the hottest CPU and GPU sensor readings. Uses
// gopsutil host sensors, falling back to nvidia-smi for the GPU. Each
// category reports the maximum across its matching sensors.
package collector

import (
	"context"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// Sensor name substrings identifying CPU sensors.
// Linux:  coretemp_core_0_input, k10temp_tctl_input, acpitz_temp1_input
// macOS:  TC0P (CPU proximity), TC0D (CPU die), TCXC (CPU core)
var cpuSensorKeys = []string{
	"cpu", "core", "package",
	"tctl", "tdie", "k10temp", "coretemp",
	"tc0p", "tc0d", "tcxc",
	"acpitz", "zenpower",
}

// Sensor name substrings identifying GPU sensors.
// Linux:  amdgpu_edge_input, nouveau_temp1_input
// macOS:  TG0P (GPU proximity), TG0D (GPU die)
var gpuSensorKeys = []string{
	"gpu", "nvidia", "radeon",
	"tg0p", "tg0d",
	"amdgpu", "nouveau",
}

const (
	minValidTemp = 0.0
	// Readings above this are sensor errors.
	maxValidTemp = 150.0
)

// TemperatureCollector collects CPU and GPU temperatures.
type TemperatureCollector struct {
	runner  probe.Runner
	logger  *zap.Logger
	sensors func(ctx context.Context) ([]host.TemperatureStat, error)
}

// NewTemperatureCollector creates a new temperature collector.
func NewTemperatureCollector(r probe.Runner, logger *zap.Logger) *TemperatureCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemperatureCollector{
		runner:  r,
		logger:  logger,
		sensors: host.SensorsTemperaturesWithContext,
	}
}

// Name returns the collector identifier.
func (c *TemperatureCollector) Name() string { return "temperatures" }

// IsAvailable returns true; absent sensors yield null readings.
func (c *TemperatureCollector) IsAvailable() bool { return true }

// Collect returns the hottest reading per category, nil when no sensor
// reported one. gopsutil may return partial readings with an error, so
// readings are used even when err is set.
func (c *TemperatureCollector) Collect(ctx context.Context) (interface{}, error) {
	temps, err := c.sensors(ctx)
	if err != nil {
		c.logger.Debug("Temperature sensors partially unavailable", zap.Error(err))
	}

	result := models.TemperatureInfo{}
	result.CPU = hottest(temps, cpuSensorKeys)
	result.GPU = hottest(temps, gpuSensorKeys)
	if result.GPU == nil {
		result.GPU = c.nvidiaTemperature(ctx)
	}
	return result, nil
}

func (c *TemperatureCollector) nvidiaTemperature(ctx context.Context) *float64 {
	out, err := probe.Text(ctx, c.runner, "nvidia-smi", "--query-gpu=temperature.gpu", "--format=csv,noheader,nounits")
	if err != nil {
		probe.LogFailure(c.logger, "nvidia-smi", err)
		return nil
	}
	var max *float64
	for _, line := range strings.Split(out, "\n") {
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil || !isValidTemperature(v) {
			continue
		}
		if max == nil || v > *max {
			t := v
			max = &t
		}
	}
	return max
}

func hottest(temps []host.TemperatureStat, keys []string) *float64 {
	var max *float64
	for _, t := range temps {
		if !isValidTemperature(t.Temperature) {
			continue
		}
		if !matchesSensor(strings.ToLower(t.SensorKey), keys) {
			continue
		}
		if max == nil || t.Temperature > *max {
			v := t.Temperature
			max = &v
		}
	}
	return max
}

// matchesSensor checks if the sensor name contains any of the given key substrings.
func matchesSensor(name string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

func isValidTemperature(temp float64) bool {
	return temp > minValidTemp && temp <= maxValidTemp
}
