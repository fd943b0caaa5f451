package normalize

import (
	"strings"
	"unicode"
)

// minApplicantRemainder is the shortest name left behind after stripping a
// legal-entity designation.
const minApplicantRemainder = 2

// ApplicantName strips one legal-entity designation ("株式会社", "Inc.", ...)
// from the start or end of an applicant name and returns the Basic form of
// what remains. Longer designations are tried first and matching ignores
// case. A designation is only stripped when at least two runes remain, and a
// Latin designation only at a word boundary. No phonetic folding is applied.
func ApplicantName(text string) string {
	if text == "" {
		return ""
	}
	return Basic(stripCorporateForm(strings.TrimSpace(text)))
}

func stripCorporateForm(text string) string {
	runes := []rune(text)
	upper := upperRunes(runes)

	for _, form := range corporateForms {
		f := upperRunes([]rune(form))
		n := len(f)
		if n > len(runes) {
			continue
		}
		latin := isLatinForm(f)

		if hasRunePrefix(upper, f) {
			rest := strings.TrimSpace(string(runes[n:]))
			if len([]rune(rest)) >= minApplicantRemainder && (!latin || n == len(runes) || !isWordRune(runes[n])) {
				return rest
			}
			continue
		}
		if hasRuneSuffix(upper, f) {
			cut := len(runes) - n
			rest := strings.TrimSpace(string(runes[:cut]))
			if len([]rune(rest)) >= minApplicantRemainder && (!latin || cut == 0 || !isWordRune(runes[cut-1])) {
				return strings.TrimRight(rest, " ,、，")
			}
		}
	}
	return text
}

func upperRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToUpper(r)
	}
	return out
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

func hasRuneSuffix(s, suffix []rune) bool {
	if len(suffix) > len(s) {
		return false
	}
	off := len(s) - len(suffix)
	for i := range suffix {
		if s[off+i] != suffix[i] {
			return false
		}
	}
	return true
}

func isLatinForm(form []rune) bool {
	return len(form) > 0 && form[0] < unicode.MaxASCII
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

//Personal.AI order the ending
