package parse

import (
	"regexp"
	"strings"
)

var glxLine = regexp.MustCompile(`^OpenGL ([^:]+):\s*(.+)$`)

// GlxInfo extracts the "OpenGL <key>: <value>" lines of glxinfo output,
// keyed by the normalized key ("renderer_string", "version_string", ...).
func GlxInfo(text string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		m := glxLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := NormalizeKey(m[1])
		if _, seen := out[key]; !seen {
			out[key] = strings.TrimSpace(m[2])
		}
	}
	return out
}

// PCIDisplay is a display controller found in lspci output.
type PCIDisplay struct {
	Slot        string
	Class       string
	Description string
	Driver      string
}

var lspciDisplay = regexp.MustCompile(`^([0-9a-fA-F]{0,4}:?[0-9a-fA-F]{2}:[0-9a-fA-F]{2}\.[0-9a-fA-F])\s+(VGA compatible controller|3D controller|Display controller):\s*(.*)$`)

// LspciDisplays returns the VGA, 3D and display controllers in lspci
// (optionally -v) output. With -v, the "Kernel driver in use" line of each
// device's indented detail block is captured.
func LspciDisplays(text string) []PCIDisplay {
	var (
		out     []PCIDisplay
		current = -1
	)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			current = -1
			continue
		}
		if line[0] == '\t' || line[0] == ' ' {
			if current < 0 {
				continue
			}
			detail := strings.TrimSpace(line)
			if v, ok := strings.CutPrefix(detail, "Kernel driver in use:"); ok {
				out[current].Driver = strings.TrimSpace(v)
			}
			continue
		}
		m := lspciDisplay.FindStringSubmatch(line)
		if m == nil {
			current = -1
			continue
		}
		out = append(out, PCIDisplay{Slot: m[1], Class: m[2], Description: strings.TrimSpace(m[3])})
		current = len(out) - 1
	}
	return out
}
