// Package query turns search criteria into a registry-independent predicate
// tree. Translation to a concrete query language happens at the registry
// boundary.
package query

import (
	"regexp"
	"strings"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
)

// TermKind selects the normalization applied to each parsed term.
type TermKind int

const (
	// TermTrademark applies the TM-SONAR term normalization.
	TermTrademark TermKind = iota
	// TermBasic applies normalize.Basic.
	TermBasic
	// TermPronunciation applies normalize.Pronunciation.
	TermPronunciation
	// TermRaw trims the term and nothing else.
	TermRaw
)

// Terms is the result of parsing a raw multi-term query.
//
// Wildcard and an empty Items list are different: Wildcard asks for every
// record, no items means the field places no constraint.
type Terms struct {
	Items    []string
	Wildcard bool
	// Partial is set when a "?" marker was embedded in a term.
	Partial bool
}

// Empty reports whether the terms constrain nothing.
func (t Terms) Empty() bool {
	return !t.Wildcard && len(t.Items) == 0
}

var termDelimiters = regexp.MustCompile(`[,，\s]+`)

func isWildcardToken(s string) bool {
	return s == "*" || s == "?" || s == "？"
}

// ParseTerms splits raw on commas and whitespace into OR'd alternatives.
// A lone "*", "?" or "？" is the wildcard. "?" markers inside terms flag a
// partial match and are removed. Two-tier "a＼b" notation yields a, b and ab.
// Terms that normalize to nothing are dropped and duplicates keep their first
// position.
func ParseTerms(raw string, kind TermKind) Terms {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Terms{}
	}
	if isWildcardToken(trimmed) {
		return Terms{Wildcard: true}
	}

	var out Terms
	if strings.ContainsAny(trimmed, "?？") {
		out.Partial = true
		trimmed = strings.NewReplacer("?", "", "？", "").Replace(trimmed)
	}

	seen := make(map[string]struct{})
	for _, token := range termDelimiters.Split(trimmed, -1) {
		for _, component := range normalize.SplitComponents(token) {
			term := normalizeTerm(component, kind)
			if term == "" {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			out.Items = append(out.Items, term)
		}
	}
	return out
}

func normalizeTerm(s string, kind TermKind) string {
	switch kind {
	case TermTrademark:
		return normalize.Trademark(s)
	case TermBasic:
		return normalize.Basic(s)
	case TermPronunciation:
		return normalize.Pronunciation(s)
	default:
		return strings.TrimSpace(s)
	}
}

//Personal.AI order the ending
