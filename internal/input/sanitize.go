package input

import (
	"regexp"
	"strings"
)

var (
	// ansiEscape matches CSI sequences such as arrow keys (ESC [ A) or
	// bracketed-paste markers (ESC [ 200 ~).
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z~]`)
	// controlChars matches C0 control characters and DEL.
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// Clean strips terminal escape sequences and control characters from raw
// input and trims surrounding whitespace.
func Clean(text string) string {
	text = ansiEscape.ReplaceAllString(text, "")
	text = controlChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
