package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionFailed_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Section{"gpu": Failed("nvidia-smi timed out")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gpu":{"error":"nvidia-smi timed out"}}`, string(data))
}

func TestReport_DisabledGroupIsNull(t *testing.T) {
	r := Report{System: Section{"os": Unknown}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"system":{"os":"Unknown"},"python":null,"javascript":null}`, string(data))
}

func TestOrUnknown(t *testing.T) {
	assert.Equal(t, Unknown, OrUnknown(""))
	assert.Equal(t, "x", OrUnknown("x"))
}

func TestUptimeInfo_LoadOmitted(t *testing.T) {
	data, err := json.Marshal(UptimeInfo{BootTime: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "load_average")
}
