package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Guliveer/sysfacts/internal/errors"
)

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatSize renders a byte count in binary units with two decimals:
// 0 -> "0B", 1536 -> "1.50KiB", 1073741824 -> "1.00GiB". Counts below one
// KiB are printed as whole bytes. Non-positive counts render as "0B".
func FormatSize(n int64) string {
	if n <= 0 {
		return "0B"
	}
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f%s", v, sizeUnits[i])
}

// FormatSizeU is FormatSize for unsigned counts as returned by gopsutil.
func FormatSizeU(n uint64) string {
	if n > uint64(1<<63-1) {
		n = 1<<63 - 1
	}
	return FormatSize(int64(n))
}

var sizeMultipliers = map[byte]float64{
	'B': 1,
	'K': 1 << 10,
	'M': 1 << 20,
	'G': 1 << 30,
	'T': 1 << 40,
	'P': 1 << 50,
	'E': 1 << 60,
}

// ParseSize converts a human-readable size such as "238.5G", "512M",
// "4.0KiB" or "100B" to bytes using powers of 1024. A bare number is bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, errors.New(errors.ErrCodeParseFailed, "empty size")
	}
	s = strings.ReplaceAll(s, ",", ".")

	end := len(s)
	for end > 0 && !isNumberByte(s[end-1]) {
		end--
	}
	num, suffix := s[:end], strings.ToUpper(strings.TrimSpace(s[end:]))

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeParseFailed, fmt.Sprintf("invalid size %q", s), err)
	}
	if v < 0 {
		return 0, errors.New(errors.ErrCodeParseFailed, fmt.Sprintf("negative size %q", s))
	}

	mult := 1.0
	if suffix != "" {
		m, ok := sizeMultipliers[suffix[0]]
		rest := strings.TrimSuffix(strings.TrimPrefix(suffix[1:], "I"), "B")
		if !ok || rest != "" {
			return 0, errors.New(errors.ErrCodeParseFailed, fmt.Sprintf("unknown size suffix %q", suffix))
		}
		mult = m
	}
	return int64(v * mult), nil
}

func isNumberByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}
