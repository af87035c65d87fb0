package wal

import "strings"

// Lines splits raw log content into physical records, discarding blank and
// whitespace-only lines. Blank lines are never semantically meaningful.
func Lines(content string) []string {
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
