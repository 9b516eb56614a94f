// Package parse turns the semi-structured text printed by system tools into
// maps and trees. Parsers are lenient: lines that do not fit the expected
// shape are skipped, never guessed at.
package parse

import (
	"strings"
	"unicode"
)

// NormalizeKey lower-cases k and collapses every run of characters other
// than letters, digits and '%' into a single underscore, so "Core(s) per
// socket" becomes "core_s_per_socket".
func NormalizeKey(k string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(k)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// KVOption configures KeyValue.
type KVOption func(*kvConfig)

type kvConfig struct {
	delims  string
	unquote bool
}

// WithDelimiters sets the characters that may separate key from value.
// The first occurrence of any of them on a line wins.
func WithDelimiters(d string) KVOption {
	return func(c *kvConfig) { c.delims = d }
}

// WithUnquote strips one pair of surrounding single or double quotes from
// values, as found in os-release files.
func WithUnquote() KVOption {
	return func(c *kvConfig) { c.unquote = true }
}

// KeyValue parses "key: value" / "key=value" lines. Keys are normalized
// with NormalizeKey and every key is retained, recognized or not. Blank
// lines, '#' comments and lines without a delimiter are skipped. When a key
// repeats, the first value is kept.
func KeyValue(text string, opts ...KVOption) map[string]string {
	cfg := kvConfig{delims: ":="}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexAny(line, cfg.delims)
		if idx <= 0 {
			continue
		}
		key := NormalizeKey(line[:idx])
		if key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		val := strings.TrimSpace(line[idx+1:])
		if cfg.unquote {
			val = Unquote(val)
		}
		out[key] = val
	}
	return out
}

// KeyValueBlocks splits text on blank lines and parses each block with
// KeyValue. /proc/cpuinfo prints one block per logical processor.
func KeyValueBlocks(text string, opts ...KVOption) []map[string]string {
	var blocks []map[string]string
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if kv := KeyValue(chunk, opts...); len(kv) > 0 {
			blocks = append(blocks, kv)
		}
	}
	return blocks
}

// Unquote removes one pair of matching surrounding quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// FirstOf returns the first non-empty value in kv among keys.
func FirstOf(kv map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(kv[k]); v != "" {
			return v
		}
	}
	return ""
}
