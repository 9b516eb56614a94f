package parse

import (
	"strings"

	"github.com/Guliveer/sysfacts/internal/errors"
)

// BlockNode is one device row of lsblk's tree output.
type BlockNode struct {
	Name     string
	Fields   map[string]string // lower-cased header -> value
	Children []*BlockNode
}

// Tree depths produced by lsblk: disks, their partitions, and devices
// layered on a partition (crypt, lvm).
const (
	depthDisk         = 0
	depthPartition    = 2
	depthSubPartition = 4
)

// treeGlyphs are the characters lsblk uses to draw its tree, in both the
// default UTF-8 and the --ascii renderings.
const treeGlyphs = " ├└│─|`-"

// LsblkTree parses the default text output of lsblk into disk trees. A
// line's depth is the number of leading spaces and tree glyphs; only depths
// 0, 2 and 4 are accepted. Any other depth, and any child that has no
// parent at the level above, is skipped rather than attached to the wrong
// device.
func LsblkTree(text string) ([]*BlockNode, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, errors.New(errors.ErrCodeParseFailed, "lsblk output is empty")
	}

	headers := strings.Fields(strings.ToLower(lines[0]))
	if len(headers) == 0 || headers[0] != "name" {
		return nil, errors.New(errors.ErrCodeParseFailed, "lsblk header row missing NAME column")
	}

	var (
		disks      []*BlockNode
		lastDisk   *BlockNode
		lastParent *BlockNode
	)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth, rest := splitTreePrefix(line)
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		node := &BlockNode{Name: fields[0], Fields: alignColumns(headers, fields)}

		switch depth {
		case depthDisk:
			disks = append(disks, node)
			lastDisk, lastParent = node, nil
		case depthPartition:
			if lastDisk == nil {
				continue
			}
			lastDisk.Children = append(lastDisk.Children, node)
			lastParent = node
		case depthSubPartition:
			if lastParent == nil {
				continue
			}
			lastParent.Children = append(lastParent.Children, node)
		default:
			continue
		}
	}

	if len(disks) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailed, "lsblk output contains no devices")
	}
	return disks, nil
}

// splitTreePrefix counts the leading runes that are spaces or tree glyphs
// and returns that count with the remainder of the line.
func splitTreePrefix(line string) (int, string) {
	depth := 0
	for i, r := range line {
		if !strings.ContainsRune(treeGlyphs, r) {
			return depth, line[i:]
		}
		depth++
	}
	return depth, ""
}

// alignColumns maps fields onto headers. Missing trailing fields are empty;
// surplus fields are joined into the last column.
func alignColumns(headers, fields []string) map[string]string {
	out := make(map[string]string, len(headers))
	last := len(headers) - 1
	for i, h := range headers {
		switch {
		case i >= len(fields):
			out[h] = ""
		case i == last:
			out[h] = strings.Join(fields[i:], " ")
		default:
			out[h] = fields[i]
		}
	}
	return out
}
