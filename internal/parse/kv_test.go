package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const hostnamectlSample = `   Static hostname: workstation
         Icon name: computer-laptop
           Chassis: laptop
        Machine ID: 0123456789abcdef0123456789abcdef
           Boot ID: fedcba9876543210fedcba9876543210
  Operating System: Ubuntu 22.04.4 LTS
            Kernel: Linux 6.5.0-35-generic
      Architecture: x86-64
   Hardware Vendor: LENOVO
    Hardware Model: ThinkPad X1 Carbon Gen 9
  Firmware Version: N32ET86W (1.62 )
`

const osReleaseSample = `PRETTY_NAME="Ubuntu 22.04.4 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
# comment line
ID=ubuntu
ID_LIKE=debian
BUILD_ID=rolling
`

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Static hostname":    "static_hostname",
		"Core(s) per socket": "core_s_per_socket",
		"CPU(s)":             "cpu_s",
		"  L1d cache ":       "l1d_cache",
		"VERSION_ID":         "version_id",
		"Use%":               "use%",
		"---":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), "NormalizeKey(%q)", in)
	}
}

func TestKeyValue_Hostnamectl(t *testing.T) {
	kv := KeyValue(hostnamectlSample)
	assert.Equal(t, "workstation", kv["static_hostname"])
	assert.Equal(t, "Ubuntu 22.04.4 LTS", kv["operating_system"])
	assert.Equal(t, "ThinkPad X1 Carbon Gen 9", kv["hardware_model"])
	assert.Equal(t, "N32ET86W (1.62 )", kv["firmware_version"])
	// unknown keys are retained too
	assert.Equal(t, "computer-laptop", kv["icon_name"])
}

func TestKeyValue_OSRelease(t *testing.T) {
	kv := KeyValue(osReleaseSample, WithDelimiters("="), WithUnquote())
	assert.Equal(t, "Ubuntu 22.04.4 LTS", kv["pretty_name"])
	assert.Equal(t, "22.04", kv["version_id"])
	assert.Equal(t, "debian", kv["id_like"])
	assert.NotContains(t, kv, "comment_line")
}

func TestKeyValue_FirstDelimiterWins(t *testing.T) {
	kv := KeyValue("Flags: a=b c\nkey = x: y\n")
	assert.Equal(t, "a=b c", kv["flags"])
	assert.Equal(t, "x: y", kv["key"])
}

func TestKeyValue_FirstValueKept(t *testing.T) {
	kv := KeyValue("model name: first\nmodel name: second\n")
	assert.Equal(t, "first", kv["model_name"])
}

func TestKeyValueBlocks(t *testing.T) {
	text := "processor\t: 0\nphysical id\t: 0\ncore id\t: 0\n\nprocessor\t: 1\nphysical id\t: 0\ncore id\t: 1\n\n"
	blocks := KeyValueBlocks(text)
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "1", blocks[1]["core_id"])
	}
}

func TestFirstOf(t *testing.T) {
	kv := map[string]string{"a": "", "b": " x "}
	assert.Equal(t, "x", FirstOf(kv, "a", "b"))
	assert.Equal(t, "", FirstOf(kv, "c"))
}
