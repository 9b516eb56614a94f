package collector

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/models"
)

type stubCollector struct {
	name      string
	available bool
	data      interface{}
	err       error
	panicWith interface{}
}

func (s *stubCollector) Name() string      { return s.name }
func (s *stubCollector) IsAvailable() bool { return s.available }
func (s *stubCollector) Collect(context.Context) (interface{}, error) {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.data, s.err
}

func TestRegistryIsolatesFailures(t *testing.T) {
	reg := NewRegistry(nil, 2)
	reg.Register(&stubCollector{name: "ok", available: true, data: "fine"})
	reg.Register(&stubCollector{name: "broken", available: true,
		err: errors.New(errors.ErrCodeParseFailed, "garbled output")})
	reg.Register(&stubCollector{name: "panics", available: true, panicWith: "boom"})
	reg.Register(&stubCollector{name: "absent", available: true})
	reg.Register(&stubCollector{name: "elsewhere", available: false})

	got := reg.CollectAll(context.Background())

	assert.Len(t, got, 5)
	assert.Equal(t, "fine", got["ok"])
	assert.Equal(t, models.Failed("garbled output"), got["broken"])
	failed, ok := got["panics"].(models.CollectionFailed)
	require.True(t, ok)
	assert.Contains(t, failed.Reason, "boom")
	assert.Contains(t, got, "absent")
	assert.Nil(t, got["absent"])
	assert.Contains(t, got, "elsewhere")
	assert.Nil(t, got["elsewhere"])
}

func TestRegistryFailureMarkerJSON(t *testing.T) {
	reg := NewRegistry(nil, 0)
	reg.Register(&stubCollector{name: "cpu", available: true,
		err: errors.New(errors.ErrCodeToolFailed, "lscpu exited with status 2")})

	data, err := json.Marshal(reg.CollectAll(context.Background()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cpu": {"error": "lscpu exited with status 2"}}`, string(data))
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry(nil, 0)
	reg.Register(&stubCollector{name: "a", available: true})
	reg.Register(&stubCollector{name: "b", available: false})
	reg.Register(&stubCollector{name: "c", available: true})

	assert.Equal(t, []string{"a", "c", "b"}, reg.Names())
	assert.Len(t, reg.Collectors(), 2)
}
