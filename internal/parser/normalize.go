package parser

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// Normalize lower-cases raw document text and collapses every whitespace
// run, newlines included, to a single space. It is idempotent.
func Normalize(raw string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(raw), " ")
}
