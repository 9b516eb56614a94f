package collector

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/models"
	"github.com/Guliveer/sysfacts/internal/platform/platformtest"
	"github.com/Guliveer/sysfacts/internal/probe/probetest"
)

// Sockets come after cores-per-socket so the derivation cannot depend
// on line order.
const lscpuSample = `Architecture:            x86_64
  CPU op-mode(s):        32-bit, 64-bit
CPU(s):                  16
Vendor ID:               AuthenticAMD
  Model name:            AMD Ryzen 7 5800X 8-Core Processor
    Thread(s) per core:  2
    Core(s) per socket:  8
    Socket(s):           1
    CPU max MHz:         4850.1948
    CPU min MHz:         2200.0000
Virtualization features:
  Virtualization:        AMD-V
Caches (sum of all):
  L1d:                   256 KiB (8 instances)
  L2:                    4 MiB (8 instances)
  L3:                    32 MiB (1 instance)
`

func noGopsutilCPU(c *CPUCollector) {
	c.info = func(context.Context) ([]cpu.InfoStat, error) { return nil, stderrors.New("unsupported") }
	c.counts = func(context.Context, bool) (int, error) { return 0, stderrors.New("unsupported") }
}

func TestPhysicalCores(t *testing.T) {
	assert.Equal(t, 16, PhysicalCores(8, 2))
	assert.Equal(t, 0, PhysicalCores(8, 0))
	assert.Equal(t, 0, PhysicalCores(0, 2))
}

func TestCPUFromLscpu(t *testing.T) {
	r := probetest.New().On("lscpu", lscpuSample)
	c := NewCPUCollector(r, &platformtest.Platform{}, nil)
	noGopsutilCPU(c)

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	info := v.(models.CPUInfo)

	assert.Equal(t, "AMD Ryzen 7 5800X 8-Core Processor", info.Model)
	assert.Equal(t, "x86_64", info.Architecture)
	assert.Equal(t, "AuthenticAMD", info.Vendor)
	assert.Equal(t, 16, info.CoresLogical)
	assert.Equal(t, 8, info.CoresPhysical)
	assert.Equal(t, 1, info.Sockets)
	assert.Equal(t, 2, info.ThreadsPerCore)
	assert.Equal(t, "4850.1948 MHz", info.MaxFrequency)
	assert.Equal(t, "2200 MHz", info.MinFrequency)
	assert.Equal(t, "AMD-V", info.Virtualization)
	assert.Equal(t, "lscpu", info.Source)
	assert.Equal(t, map[string]string{
		"L1d": "256 KiB (8 instances)",
		"L2":  "4 MiB (8 instances)",
		"L3":  "32 MiB (1 instance)",
	}, info.Cache)
}

func TestCacheLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"l1d", "L1d"},
		{"l1i_cache", "L1i"},
		{"l2_cache", "L2"},
		{"l3", "L3"},
		{"l4", ""},
		{"load", ""},
		{"cpu_s", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cacheLabel(tt.key), tt.key)
	}
}

const cpuinfoSample = `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
cpu MHz		: 1800.000
cache size	: 6144 KB
physical id	: 0
core id		: 0
flags		: fpu vme vmx sse

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
physical id	: 0
core id		: 0

processor	: 2
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
physical id	: 0
core id		: 1

processor	: 3
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
physical id	: 0
core id		: 1
`

func TestCPUFallsBackToCPUInfo(t *testing.T) {
	r := probetest.New().File("/proc/cpuinfo", cpuinfoSample)
	c := NewCPUCollector(r, &platformtest.Platform{}, nil)
	noGopsutilCPU(c)

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	info := v.(models.CPUInfo)

	assert.Equal(t, "Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz", info.Model)
	assert.Equal(t, 4, info.CoresLogical)
	assert.Equal(t, 2, info.CoresPhysical)
	assert.Equal(t, 1, info.Sockets)
	assert.Equal(t, 2, info.ThreadsPerCore)
	assert.Equal(t, "VT-x", info.Virtualization)
	assert.Equal(t, "6144 KB", info.Cache["cache_size"])
	assert.Equal(t, "cpuinfo", info.Source)
}

func TestCPUAllSourcesAbsent(t *testing.T) {
	c := NewCPUCollector(probetest.New(), &platformtest.Platform{}, nil)
	noGopsutilCPU(c)

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	info := v.(models.CPUInfo)
	assert.Equal(t, models.Unknown, info.Model)
	assert.Equal(t, models.Unknown, info.Source)
	assert.NotEmpty(t, info.Architecture)
}
