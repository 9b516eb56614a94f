package collector

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/models"
)

func pct(v float64) *float64 { return &v }

func TestTopByCPUKeepsTopTen(t *testing.T) {
	samples := make([]ProcessSample, 0, 15)
	for i := 0; i < 15; i++ {
		samples = append(samples, ProcessSample{
			PID:  int32(100 + i),
			Name: fmt.Sprintf("proc%d", i),
			CPU:  pct(float64(i)),
		})
	}

	got := TopByCPU(samples, DefaultTopProcesses)

	require.Len(t, got, 10)
	for i, p := range got {
		assert.Equal(t, float64(14-i), p.CPUPercent)
	}
}

func TestTopByCPUNilCountsAsZero(t *testing.T) {
	got := TopByCPU([]ProcessSample{
		{PID: 1, Name: "init", CPU: nil},
		{PID: 2, Name: "busy", CPU: pct(12.5)},
		{PID: 3, Name: "idle", CPU: pct(0)},
	}, 10)

	require.Len(t, got, 3)
	assert.Equal(t, "busy", got[0].Name)
	assert.Equal(t, models.ProcessInfo{PID: 1, Name: "init", CPUPercent: 0}, got[1])
	assert.Equal(t, "idle", got[2].Name)
}

type fakeProcess struct {
	name    string
	nameErr error
	cpu     float64
	cpuErr  error
	running bool
}

func (f fakeProcess) NameWithContext(context.Context) (string, error) { return f.name, f.nameErr }
func (f fakeProcess) CPUPercentWithContext(context.Context) (float64, error) {
	return f.cpu, f.cpuErr
}
func (f fakeProcess) IsRunningWithContext(context.Context) (bool, error) { return f.running, nil }

func TestProcessCollectorSkipsVanished(t *testing.T) {
	c := NewProcessCollector(5, nil)
	c.list = func(context.Context) ([]processEntry, error) {
		return []processEntry{
			{pid: 1, handle: fakeProcess{name: "systemd", cpu: 0.1, running: true}},
			{pid: 2, handle: fakeProcess{nameErr: stderrors.New("permission denied")}},
			{pid: 3, handle: fakeProcess{name: "gone", cpuErr: process.ErrorProcessNotRunning}},
			{pid: 4, handle: fakeProcess{name: "exited", cpuErr: stderrors.New("no such file"), running: false}},
			{pid: 5, handle: fakeProcess{name: "restricted", cpuErr: stderrors.New("access denied"), running: true}},
			{pid: 6, handle: fakeProcess{name: "compiler", cpu: 87.5, running: true}},
		}, nil
	}

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	got := v.([]models.ProcessInfo)

	require.Len(t, got, 3)
	assert.Equal(t, "compiler", got[0].Name)
	assert.Equal(t, "systemd", got[1].Name)
	assert.Equal(t, models.ProcessInfo{PID: 5, Name: "restricted"}, got[2])
}
