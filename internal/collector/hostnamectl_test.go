package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/sysfacts/internal/probe/probetest"
)

const hostnamectlJSONSample = `{"Hostname":"devbox","StaticHostname":"devbox","PrettyHostname":null,
"IconName":"computer-desktop","Chassis":"desktop","KernelName":"Linux","KernelRelease":"6.5.0-35-generic",
"OperatingSystemPrettyName":"Ubuntu 22.04.4 LTS","HardwareVendor":"Micro-Star International Co., Ltd.",
"HardwareModel":"MS-7C56","FirmwareVersion":"A.60","FirmwareDate":1681257600000000,"MachineID":"4c4c4544"}`

const hostnamectlTextSample = ` Static hostname: devbox
       Icon name: computer-laptop
         Chassis: laptop 💻
      Machine ID: 4c4c4544004d3510
Operating System: Fedora Linux 39 (Workstation Edition)
          Kernel: Linux 6.7.5-200.fc39.x86_64
    Architecture: x86-64
 Hardware Vendor: LENOVO
  Hardware Model: ThinkPad T14 Gen 3
`

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "hardware_vendor", camelToSnake("HardwareVendor"))
	assert.Equal(t, "machine_id", camelToSnake("MachineID"))
	assert.Equal(t, "operating_system_pretty_name", camelToSnake("OperatingSystemPrettyName"))
	assert.Equal(t, "hostname", camelToSnake("Hostname"))
}

func TestHostnamectlJSON(t *testing.T) {
	r := probetest.New().On("hostnamectl --json=short", hostnamectlJSONSample)

	kv, source, err := hostnamectlFacts(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "hostnamectl-json", source)
	assert.Equal(t, "devbox", kv["static_hostname"])
	assert.Equal(t, "Ubuntu 22.04.4 LTS", kv["operating_system"])
	assert.Equal(t, "Linux 6.5.0-35-generic", kv["kernel"])
	assert.Equal(t, "MS-7C56", kv["hardware_model"])
	assert.Equal(t, "2023-04-12", kv["firmware_date"])
	assert.NotContains(t, r.Calls(), "hostnamectl status")
}

func TestHostnamectlTextFallback(t *testing.T) {
	r := probetest.New().
		OnExit("hostnamectl --json=short", "", 1).
		On("hostnamectl status", hostnamectlTextSample)

	kv, source, err := hostnamectlFacts(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "hostnamectl", source)
	assert.Equal(t, "Fedora Linux 39 (Workstation Edition)", kv["operating_system"])
	assert.Equal(t, "Linux", kv["kernel_name"])
	assert.Equal(t, "6.7.5-200.fc39.x86_64", kv["kernel_release"])
	assert.Equal(t, "laptop", kv["chassis"])
	assert.Equal(t, "LENOVO", kv["hardware_vendor"])
}

func TestHostnamectlAbsent(t *testing.T) {
	_, _, err := hostnamectlFacts(context.Background(), probetest.New())
	assert.Error(t, err)
}
