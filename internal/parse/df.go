package parse

import (
	"strings"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// DFRow is one filesystem line of df output, keyed by header name
// ("Filesystem", "Size", "Used", "Avail", "Use%", "Mounted on").
type DFRow map[string]string

// dfMultiWordHeaders are header labels that df prints with a space.
var dfMultiWordHeaders = map[string]string{
	"Mounted": "on",
}

// DFTable parses df output. The header row defines the columns. A row with
// fewer fields than headers is skipped; a row with more has the surplus
// joined into the last column, since mount points may contain spaces. A
// filesystem name printed alone on its line (df wraps long device names)
// is carried onto the following line.
func DFTable(text string) ([]DFRow, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, errors.New(errors.ErrCodeParseFailed, "df output is empty")
	}

	headers := dfHeaders(lines[0])
	if len(headers) < 2 {
		return nil, errors.New(errors.ErrCodeParseFailed, "df header row has too few columns")
	}

	var (
		rows    []DFRow
		carried string
	)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 && carried == "" {
			carried = fields[0]
			continue
		}
		if carried != "" {
			fields = append([]string{carried}, fields...)
			carried = ""
		}
		if len(fields) < len(headers) {
			continue
		}
		rows = append(rows, DFRow(alignColumns(headers, fields)))
	}
	return rows, nil
}

func dfHeaders(line string) []string {
	raw := strings.Fields(line)
	headers := make([]string, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		h := raw[i]
		if next, ok := dfMultiWordHeaders[h]; ok && i+1 < len(raw) && raw[i+1] == next {
			h += " " + next
			i++
		}
		headers = append(headers, h)
	}
	return headers
}
