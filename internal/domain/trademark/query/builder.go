package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// DefaultFuzzyFragmentLimit caps the fragments a fuzzy search expands into.
const DefaultFuzzyFragmentLimit = 64

// Criteria holds the user-supplied search fields. Empty fields place no
// constraint; fields are AND'ed together.
type Criteria struct {
	ApplicationNumber string `json:"application_number,omitempty" yaml:"application_number"`
	MarkText          string `json:"mark_text,omitempty" yaml:"mark_text"`
	ApplicantName     string `json:"applicant_name,omitempty" yaml:"applicant_name"`
	Classification    string `json:"classification,omitempty" yaml:"classification"`
	DesignatedGoods   string `json:"designated_goods,omitempty" yaml:"designated_goods"`
	SimilarGroupCodes string `json:"similar_group_codes,omitempty" yaml:"similar_group_codes"`
}

// IsEmpty reports whether every field is blank.
func (c Criteria) IsEmpty() bool {
	for _, s := range []string{c.ApplicationNumber, c.MarkText, c.ApplicantName,
		c.Classification, c.DesignatedGoods, c.SimilarGroupCodes} {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Validate rejects criteria that cannot be turned into a predicate.
func (c Criteria) Validate() error {
	if c.IsEmpty() {
		return errors.InvalidCriteria("at least one search criterion is required")
	}
	if strings.TrimSpace(c.ApplicationNumber) != "" {
		if _, ok := normalize.ApplicationNumber(c.ApplicationNumber); !ok {
			return errors.InvalidCriteria("application number must contain only digits and hyphens")
		}
	}
	return nil
}

// BuilderConfig tunes predicate construction.
type BuilderConfig struct {
	// FuzzyFragmentLimit caps fuzzy fragments; 0 means unlimited.
	FuzzyFragmentLimit int
}

// Builder converts Criteria into a Predicate. It is safe for concurrent use.
type Builder struct {
	fuzzyLimit int
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	limit := cfg.FuzzyFragmentLimit
	if limit < 0 {
		limit = 0
	}
	return &Builder{fuzzyLimit: limit}
}

// Result is a built predicate plus facts about how it was built.
type Result struct {
	Predicate Predicate
	// Wildcard is set when a TM-SONAR wildcard dropped the mark constraint.
	Wildcard bool
	// Partial is set when a TM-SONAR term carried a "?" partial-match marker.
	Partial bool
	// FuzzyFragments is the number of fuzzy fragments added.
	FuzzyFragments int
}

// Build validates c and builds its predicate under mode.
func (b *Builder) Build(c Criteria, mode Mode) (Predicate, error) {
	res, err := b.BuildResult(c, mode)
	if err != nil {
		return Predicate{}, err
	}
	return res.Predicate, nil
}

// BuildResult is Build with build details.
func (b *Builder) BuildResult(c Criteria, mode Mode) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	var clauses []Node

	if raw := strings.TrimSpace(c.ApplicationNumber); raw != "" {
		num, _ := normalize.ApplicationNumber(raw)
		clauses = append(clauses, Match{Field: FieldApplicationNumber, Kind: MatchEqual, Value: num})
	}
	if raw := strings.TrimSpace(c.MarkText); raw != "" {
		mc := b.markClause(raw, mode)
		res.Wildcard = mc.wildcard
		res.Partial = mc.partial
		res.FuzzyFragments = mc.fragments
		clauses = append(clauses, mc.node)
	}
	if raw := strings.TrimSpace(c.ApplicantName); raw != "" {
		clauses = append(clauses, applicantClause(raw, mode))
	}
	clauses = append(clauses,
		tokenClause(c.Classification, classToken),
		tokenClause(c.DesignatedGoods, goodsToken),
		tokenClause(c.SimilarGroupCodes, similarGroupToken),
	)

	res.Predicate = Predicate{Root: newGroup(OpAnd, clauses...)}
	if res.Predicate.Empty() && !res.Wildcard {
		return Result{}, errors.InvalidCriteria("search criteria contain no searchable terms")
	}
	return res, nil
}

type markResult struct {
	node      Node
	wildcard  bool
	partial   bool
	fragments int
}

func (b *Builder) markClause(q string, mode Mode) markResult {
	var mc markResult
	var arms []Node
	var fragmentSources []string

	switch mode.Base {
	case BaseTMSonar:
		terms := ParseTerms(q, TermTrademark)
		if terms.Wildcard {
			mc.wildcard = true
			return mc
		}
		mc.partial = terms.Partial
		for _, term := range terms.Items {
			arms = append(arms, variantArms(FormTrademark, term)...)
		}
		fragmentSources = terms.Items
	case BasePlain:
		arms = variantArms(FormRaw, q)
		fragmentSources = []string{q}
	default:
		arms = variantArms(FormRaw, q)
		if basic := normalize.Basic(q); basic != "" {
			arms = append(arms, variantArms(FormBasic, basic)...)
		}
		if mode.Pronunciation {
			if pron := normalize.Pronunciation(q); pron != "" {
				arms = append(arms, variantArms(FormPronunciation, pron)...)
			}
		}
		fragmentSources = []string{q}
	}

	if mode.Fuzzy {
		for _, frag := range FuzzyFragments(fragmentSources, b.fuzzyLimit) {
			arms = append(arms, Match{Field: FieldPhonetic, Form: FormRaw, Kind: MatchSubstring, Value: frag})
			arms = append(arms, variantArms(FormRaw, frag)...)
			mc.fragments++
		}
	}
	mc.node = newGroup(OpOr, dedupe(arms)...)
	return mc
}

func variantArms(form Form, value string) []Node {
	arms := make([]Node, 0, len(MarkTextFields))
	for _, f := range MarkTextFields {
		arms = append(arms, Match{Field: f, Form: form, Kind: MatchSubstring, Value: value})
	}
	return arms
}

func applicantClause(q string, mode Mode) Node {
	var arms []Node
	for _, f := range ApplicantFields {
		arms = append(arms, Match{Field: f, Form: FormRaw, Kind: MatchSubstring, Value: q})
	}
	if mode.Enhanced() {
		if name := normalize.ApplicantName(q); name != "" {
			for _, f := range ApplicantFields {
				arms = append(arms, Match{Field: f, Form: FormBasic, Kind: MatchSubstring, Value: name})
			}
		}
	}
	return newGroup(OpOr, arms...)
}

func classToken(tok string) Node {
	tok = width.Fold.String(tok)
	return newGroup(OpOr,
		Match{Field: FieldGoodsClass, Kind: MatchSubstring, Value: tok},
		Match{Field: FieldGoodsRui, Kind: MatchSubstring, Value: tok},
	)
}

func goodsToken(tok string) Node {
	return Match{Field: FieldDesignatedGoods, Kind: MatchSubstring, Value: tok}
}

func similarGroupToken(tok string) Node {
	return Match{Field: FieldSimilarGroup, Kind: MatchSubstring, Value: strings.ToUpper(width.Fold.String(tok))}
}

// tokenClause ANDs one leaf per whitespace-separated token of raw.
func tokenClause(raw string, leaf func(string) Node) Node {
	var nodes []Node
	seen := make(map[string]struct{})
	for _, tok := range termDelimiters.Split(strings.TrimSpace(raw), -1) {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		nodes = append(nodes, leaf(tok))
	}
	return newGroup(OpAnd, nodes...)
}

func dedupe(nodes []Node) []Node {
	seen := make(map[Match]struct{}, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if m, ok := n.(Match); ok {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
		}
		out = append(out, n)
	}
	return out
}

func isFragmentSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == 'ー' || r == '－' || r == '・'
}

// FuzzyFragments decomposes inputs into rune bigrams followed by single runes,
// skipping whitespace and separators as single fragments. Duplicates are
// removed and at most limit fragments are returned; limit 0 means unlimited.
func FuzzyFragments(inputs []string, limit int) []string {
	seen := make(map[string]struct{})
	var bigrams, singles []string
	for _, in := range inputs {
		rs := []rune(strings.Join(strings.Fields(in), ""))
		if len(rs) >= 2 {
			for i := 0; i+1 < len(rs); i++ {
				frag := string(rs[i : i+2])
				if _, dup := seen[frag]; dup {
					continue
				}
				seen[frag] = struct{}{}
				bigrams = append(bigrams, frag)
			}
		}
		for _, r := range rs {
			if isFragmentSeparator(r) {
				continue
			}
			frag := string(r)
			if _, dup := seen[frag]; dup {
				continue
			}
			seen[frag] = struct{}{}
			singles = append(singles, frag)
		}
	}
	out := append(bigrams, singles...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

//Personal.AI order the ending
