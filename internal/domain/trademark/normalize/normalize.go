// Package normalize folds orthographic and phonetic variation out of mark text
// and applicant names so that approximate matches compare equal.
//
// Every function is total: it never fails, maps "" to "" and passes
// unrecognised characters through. The rule tables are package-level data that
// is never written after init, so all functions are safe for concurrent use.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ゖ'
	kanaOffset    = 'ァ' - 'ぁ'
)

var removed map[rune]struct{}

func init() {
	removed = make(map[rune]struct{}, len(dashRunes)+len(symbolRunes)+len(punctuationRunes))
	for _, set := range [][]rune{dashRunes, symbolRunes, punctuationRunes} {
		for _, r := range set {
			removed[r] = struct{}{}
		}
	}
	sort.SliceStable(corporateForms, func(i, j int) bool {
		return len([]rune(corporateForms[i])) > len([]rune(corporateForms[j]))
	})
}

func isRemoved(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	_, ok := removed[r]
	return ok
}

func isHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// fold applies width folding (full-width ASCII to ASCII, half-width katakana to
// full-width) and recomposes voiced marks split off by the fold.
func fold(text string) string {
	return norm.NFC.String(width.Fold.String(text))
}

// Basic is the orthographic normal form used for enhanced matching: kana,
// width and case are unified, long-vowel marks, dashes, whitespace, decorative
// symbols and punctuation are removed, and Greek letters, traditional kanji and
// Roman numerals are mapped to their plain equivalents. Case is unified before
// the table lookups so that every table output is already in its final form.
//
// Basic is idempotent.
func Basic(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToUpper(fold(text))

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if isRemoved(r) {
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
	return norm.NFC.String(sb.String())
}

// Pronunciation is Basic followed by the ordered phonetic-equivalence table.
// Each pass applies every rule once, left to right and non-overlapping; passes
// repeat until the text stops changing so the result is idempotent. No rule
// lengthens its input.
func Pronunciation(text string) string {
	text = Basic(text)
	if text == "" {
		return ""
	}
	for i := 0; i < maxPronunciationPasses; i++ {
		next := pronunciationPass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func pronunciationPass(text string) string {
	for _, rule := range pronunciationTable {
		if strings.Contains(text, rule.From) {
			text = strings.ReplaceAll(text, rule.From, rule.To)
		}
	}
	return text
}

func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool { return rules[i].From < rules[j].From })
}

//Personal.AI order the ending
