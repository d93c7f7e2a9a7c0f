// Package stringtest builds expected multi-line strings for tests.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected report or source output line by line.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"Total time: 1.0000ms (CPU freq 3000000000)",
//		"Parse: 3000 (100.00%)",
//		"",
//	) // -> "Total time: ...\nParse: 3000 (100.00%)\n"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Input removes one leading and one trailing newline from s, then removes
// the indentation common to all non-blank lines. Blank lines become empty.
// Use this to write JSON or Go source fixtures inline with the test code.
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		lines[i] = line[indent:]
	}

	return strings.Join(lines, "\n")
}
