package parser

import (
	"regexp"
	"strings"
)

var (
	emailPattern      = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+`)
	phonePattern      = regexp.MustCompile(`[+(]?[1-9][0-9 .\-()]{8,}[0-9]`)
	profileURLPattern = regexp.MustCompile(`(https?://\S+)|(linkedin\.com/\S+)`)
)

// ExtractEmail returns the first email address in text.
func ExtractEmail(text string) (string, bool) {
	return firstMatch(emailPattern, text)
}

// minPhoneDigits is the fewest digits a phone candidate may carry.
const minPhoneDigits = 9

// ExtractPhone returns the first phone number in text. Candidates are an
// optional '+' or '(' followed by digits and separators, starting with a
// non-zero digit and ending with a digit; candidates with fewer than nine
// digits, such as date ranges, are skipped.
func ExtractPhone(text string) (string, bool) {
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		if countDigits(candidate) >= minPhoneDigits {
			return candidate, true
		}
	}
	return "", false
}

func countDigits(s string) int {
	return len(s) - len(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, s))
}

// ExtractProfileURL returns the first http(s) URL or bare linkedin.com link.
func ExtractProfileURL(text string) (string, bool) {
	return firstMatch(profileURLPattern, text)
}

func firstMatch(re *regexp.Regexp, text string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}
