package normalize

import (
	"strings"
	"unicode"
)

// Two-tier notation separators ("reading＼rendering").
const (
	componentSeparator      = "＼"
	componentSeparatorASCII = "\\"
)

var trademarkRemoved = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(trademarkSymbolRunes)+len(trademarkPunctuationRunes))
	for _, set := range [][]rune{trademarkSymbolRunes, trademarkPunctuationRunes} {
		for _, r := range set {
			m[r] = struct{}{}
		}
	}
	return m
}()

var dashSet = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(dashRunes))
	for _, r := range dashRunes {
		m[r] = struct{}{}
	}
	return m
}()

// Trademark is the term normalization used by TM-SONAR style searches. It is
// narrower than Basic: width is preserved, dash variants are unified to "-"
// rather than removed, and only the TM-SONAR symbol set and punctuation are
// dropped. The middle dot and brackets are kept.
func Trademark(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToUpper(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := trademarkRemoved[r]; ok {
			continue
		}
		if _, ok := dashSet[r]; ok {
			sb.WriteByte('-')
			continue
		}
		if isHiragana(r) {
			sb.WriteRune(r + kanaOffset)
			continue
		}
		if s, ok := greekTable[r]; ok {
			sb.WriteString(s)
			continue
		}
		if s, ok := kanjiTable[r]; ok {
			sb.WriteString(s)
			continue
		}
		if s, ok := romanTable[r]; ok {
			sb.WriteString(s)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SplitComponents splits two-tier "primary＼secondary" notation. It returns
// each non-empty side followed by the sides joined together; text without a
// separator is returned as its only component. Empty input yields nil.
func SplitComponents(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, componentSeparatorASCII, componentSeparator)
	if !strings.Contains(text, componentSeparator) {
		return []string{text}
	}

	var parts []string
	for _, p := range strings.Split(text, componentSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "")
	for _, p := range parts {
		if p == joined {
			return parts
		}
	}
	return append(parts, joined)
}

//Personal.AI order the ending
