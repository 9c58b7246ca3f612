package gatherer

import (
	"strings"
)

// Captured stream size limits for queue messages.
const (
	MaxOutputHeight = 40
	MaxOutputWidth  = 80
)

// TrimStrToRect limits a captured output block to a rectangle so queue
// messages stay small.
func TrimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	res := ""
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	for i, line := range lines {
		if i > 0 {
			res += "\n"
		}
		if len(line) > maxWidth {
			res += line[:maxWidth] + "[...]"
		} else {
			res += line
		}
	}
	return res
}
