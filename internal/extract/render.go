package extract

import (
	"fmt"
	"strings"
)

// DefaultIndent is the indent given to the first line of an extracted block.
const DefaultIndent = "  "

// NormalizeIndent prefixes the first line of block with indent unless it
// already starts with it. Extracted blocks are trimmed, so their first line
// has lost the indentation it had in the source.
func NormalizeIndent(block, indent string) string {
	if block == "" || strings.HasPrefix(block, indent) {
		return block
	}
	return indent + block
}

// Reindent shifts every line of block so that the common indentation of the
// lines after the first becomes indent, and gives the first line the same
// indent. Blank lines are emptied.
func Reindent(block, indent string) string {
	if block == "" {
		return block
	}
	lines := strings.Split(block, "\n")

	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}

	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case i == 0:
			lines[i] = indent + strings.TrimLeft(line, " \t")
		default:
			lines[i] = indent + line[common:]
		}
	}
	return strings.Join(lines, "\n")
}

// Render wraps block in a standalone exported declaration named name.
func Render(name, block string) string {
	if block == "" {
		return fmt.Sprintf("export const %s = {}\n", name)
	}
	return fmt.Sprintf("export const %s = {\n%s\n}\n", name, block)
}
