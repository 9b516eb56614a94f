package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Guliveer/sysfacts/internal/errors"
	"github.com/Guliveer/sysfacts/internal/parse"
	"github.com/Guliveer/sysfacts/internal/probe"
)

// hostnamectlFacts returns hostnamectl's view of the host as a map keyed
// like the text output ("static_hostname", "operating_system", "kernel",
// "hardware_vendor", ...). The JSON form is tried first; older systemd
// releases only print text.
func hostnamectlFacts(ctx context.Context, r probe.Runner) (map[string]string, string, error) {
	res, err := r.Run(ctx, "hostnamectl", "--json=short")
	if err == nil {
		if kv, jerr := hostnamectlJSON(res.Stdout); jerr == nil {
			return kv, "hostnamectl-json", nil
		}
	} else if errors.HasCode(err, errors.ErrCodeToolUnavailable) {
		return nil, "", err
	}

	res, err = r.Run(ctx, "hostnamectl", "status")
	if err != nil {
		return nil, "", err
	}
	kv := parse.KeyValue(res.Stdout)
	if len(kv) == 0 {
		return nil, "", errors.New(errors.ErrCodeParseFailed, "hostnamectl printed no fields")
	}
	// "Linux 6.5.0-35-generic" carries both name and release.
	if k := kv["kernel"]; k != "" {
		name, release, _ := strings.Cut(k, " ")
		kv["kernel_name"] = name
		kv["kernel_release"] = strings.TrimSpace(release)
	}
	if c := kv["chassis"]; c != "" {
		kv["chassis"] = strings.Fields(c)[0]
	}
	return kv, "hostnamectl", nil
}

func hostnamectlJSON(text string) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "hostnamectl JSON", err)
	}

	kv := make(map[string]string, len(raw))
	for k, v := range raw {
		key := camelToSnake(k)
		switch val := v.(type) {
		case string:
			kv[key] = strings.TrimSpace(val)
		case float64:
			if key == "firmware_date" {
				kv[key] = time.UnixMicro(int64(val)).UTC().Format("2006-01-02")
			} else {
				kv[key] = fmt.Sprintf("%.0f", val)
			}
		}
	}

	if kv["static_hostname"] == "" {
		kv["static_hostname"] = kv["hostname"]
	}
	kv["operating_system"] = parse.FirstOf(kv, "operating_system_pretty_name", "operating_system")
	if kv["kernel_name"] != "" {
		kv["kernel"] = strings.TrimSpace(kv["kernel_name"] + " " + kv["kernel_release"])
	}
	return kv, nil
}

// camelToSnake converts "HardwareVendor" to "hardware_vendor" and
// "MachineID" to "machine_id".
func camelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
