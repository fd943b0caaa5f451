package normalize

import (
	"strings"

	"golang.org/x/text/width"
)

// ApplicationNumber folds full-width digits, strips hyphens and surrounding
// whitespace, and reports whether the remainder is a non-empty digit string.
func ApplicationNumber(text string) (string, bool) {
	s := width.Fold.String(strings.TrimSpace(text))
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s, false
		}
	}
	return s, true
}

//Personal.AI order the ending
