package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlxInfo(t *testing.T) {
	text := `name of display: :0
display: :0  screen: 0
OpenGL vendor string: NVIDIA Corporation
OpenGL renderer string: NVIDIA GeForce RTX 3080/PCIe/SSE2
OpenGL core profile version string: 4.6.0 NVIDIA 535.54.03
OpenGL version string: 4.6.0 NVIDIA 535.54.03
`
	kv := GlxInfo(text)
	assert.Equal(t, "NVIDIA Corporation", kv["vendor_string"])
	assert.Equal(t, "NVIDIA GeForce RTX 3080/PCIe/SSE2", kv["renderer_string"])
	assert.Equal(t, "4.6.0 NVIDIA 535.54.03", kv["version_string"])
	assert.Len(t, kv, 4)
}

func TestLspciDisplays(t *testing.T) {
	text := `00:02.0 VGA compatible controller: Intel Corporation Alder Lake-P Integrated Graphics Controller (rev 0c) (prog-if 00 [VGA controller])
	Subsystem: Lenovo Device 22e4
	Kernel driver in use: i915
	Kernel modules: i915

00:14.0 USB controller: Intel Corporation Device 51ed (rev 01)
	Kernel driver in use: xhci_hcd

01:00.0 3D controller: NVIDIA Corporation GA107M [GeForce RTX 3050 Mobile] (rev a1)
	Kernel driver in use: nvidia
`
	got := LspciDisplays(text)
	require.Len(t, got, 2)
	assert.Equal(t, "00:02.0", got[0].Slot)
	assert.Equal(t, "VGA compatible controller", got[0].Class)
	assert.Equal(t, "i915", got[0].Driver)
	assert.Equal(t, "3D controller", got[1].Class)
	assert.Equal(t, "NVIDIA Corporation GA107M [GeForce RTX 3050 Mobile] (rev a1)", got[1].Description)
	assert.Equal(t, "nvidia", got[1].Driver)
}
