package codeblock

import "strings"

// Normalize canonicalizes code before comparison: line endings become "\n",
// trailing whitespace is stripped from every line and the whole text is trimmed.
func Normalize(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Matches reports whether the block's current template equals its solution
// after normalization. A block without a solution never matches.
func Matches(b CodeBlock) bool {
	solution := Normalize(b.Solution)
	if solution == "" {
		return false
	}
	return Normalize(b.Template) == solution
}
