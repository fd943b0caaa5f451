package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
)

// ---------------------------------------------------------------------------
// Mark text
// ---------------------------------------------------------------------------

// markTextPriority is the order textual variants are tried for display. The
// display-form variant only takes part in matching.
var markTextPriority = []trademark.VariantKind{
	trademark.VariantStandardCharacter,
	trademark.VariantSearchForm,
	trademark.VariantPhonetic,
}

// displayMarkText picks the display text for one application.
func displayMarkText(hasImage bool, variants map[trademark.VariantKind]string) (string, trademark.VariantKind) {
	if hasImage {
		return trademark.ImagePlaceholder, trademark.VariantImage
	}
	for _, kind := range markTextPriority {
		if text := variants[kind]; text != "" {
			return text, kind
		}
	}
	return "", ""
}

// ---------------------------------------------------------------------------
// Applicant
// ---------------------------------------------------------------------------

// applicantValue is the display value one source yields.
type applicantValue struct {
	Name       string
	Address    string
	Source     trademark.ApplicantSource
	Confidence trademark.Confidence
}

// applicantSource yields a value for an applicant or reports it has none.
type applicantSource struct {
	Name    trademark.ApplicantSource
	Resolve func(trademark.Applicant) (applicantValue, bool)
}

// applicantSources is the display precedence for applicant names.
var applicantSources = []applicantSource{
	{Name: trademark.ApplicantFromMaster, Resolve: fromMaster},
	{Name: trademark.ApplicantFromLegacy, Resolve: fromLegacy},
	{Name: trademark.ApplicantFromMapping, Resolve: fromMapping},
	{Name: trademark.ApplicantFromCode, Resolve: fromCode},
}

// resolveApplicant returns the first value yielded by sources.
func resolveApplicant(a trademark.Applicant, sources []applicantSource) applicantValue {
	for _, src := range sources {
		if v, ok := src.Resolve(a); ok {
			v.Source = src.Name
			return v
		}
	}
	return applicantValue{}
}

func fromMaster(a trademark.Applicant) (applicantValue, bool) {
	name := strings.TrimSpace(a.MasterName)
	if trademark.IsPlaceholderName(name) {
		return applicantValue{}, false
	}
	return applicantValue{Name: name, Address: strings.TrimSpace(a.MasterAddress)}, true
}

func fromLegacy(a trademark.Applicant) (applicantValue, bool) {
	name := strings.TrimSpace(a.LegacyName)
	if trademark.IsPlaceholderName(name) {
		return applicantValue{}, false
	}
	return applicantValue{Name: name, Address: strings.TrimSpace(a.LegacyAddress)}, true
}

// fromMapping uses the mapping backed by the most trademarks; ties go to the
// lexically smallest name.
func fromMapping(a trademark.Applicant) (applicantValue, bool) {
	var best *trademark.ApplicantMapping
	for i := range a.Mappings {
		m := &a.Mappings[i]
		if trademark.IsPlaceholderName(m.Name) {
			continue
		}
		if best == nil || m.TrademarkCount > best.TrademarkCount ||
			(m.TrademarkCount == best.TrademarkCount && strings.TrimSpace(m.Name) < strings.TrimSpace(best.Name)) {
			best = m
		}
	}
	if best == nil {
		return applicantValue{}, false
	}
	return applicantValue{
		Name:       strings.TrimSpace(best.Name) + trademark.EstimatedSuffix,
		Address:    strings.TrimSpace(best.Address),
		Confidence: trademark.ConfidenceFor(best.TrademarkCount),
	}, true
}

func fromCode(a trademark.Applicant) (applicantValue, bool) {
	code := strings.TrimSpace(a.Code)
	if code == "" {
		return applicantValue{}, false
	}
	return applicantValue{Name: trademark.CodeOnlyPrefix + code}, true
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

var classDelimiters = regexp.MustCompile(`[,，、\s]+`)

// classNumber canonicalizes one class token to two digits. Non-numeric
// tokens are malformed.
func classNumber(tok string) (string, bool) {
	tok = strings.TrimSpace(width.Fold.String(tok))
	if tok == "" {
		return "", false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return "", false
	}
	if len(tok) == 1 {
		tok = "0" + tok
	}
	return tok, true
}

// classDisplay unions the class numbers of rows, sorts them numerically and
// joins them with ", ". It returns the number of malformed tokens dropped.
func classDisplay(rows []trademark.Classification) (string, int) {
	seen := make(map[string]struct{})
	var classes []string
	malformed := 0
	for _, row := range rows {
		for _, tok := range classDelimiters.Split(row.ClassNumber, -1) {
			if strings.TrimSpace(tok) == "" {
				continue
			}
			c, ok := classNumber(tok)
			if !ok {
				malformed++
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			classes = append(classes, c)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		a, _ := strconv.Atoi(classes[i])
		b, _ := strconv.Atoi(classes[j])
		if a != b {
			return a < b
		}
		return classes[i] < classes[j]
	})
	return strings.Join(classes, ", "), malformed
}

// representativeGoods picks the longest designated-goods text; ties go to the
// lexically smallest.
func representativeGoods(rows []trademark.Classification) string {
	best := ""
	bestLen := 0
	for _, row := range rows {
		text := strings.TrimSpace(row.DesignatedGoods)
		if text == "" {
			continue
		}
		n := utf8.RuneCountInString(text)
		if n > bestLen || (n == bestLen && text < best) {
			best, bestLen = text, n
		}
	}
	return best
}

// ---------------------------------------------------------------------------
// Similar groups
// ---------------------------------------------------------------------------

var similarGroupCode = regexp.MustCompile(`\d{2}[A-Z]\d{2}`)

// similarGroupDisplay extracts well-formed codes from rows and returns them
// distinct, sorted and space separated, plus the number of fragments that
// held no valid code.
func similarGroupDisplay(rows []trademark.SimilarGroup) (string, int) {
	seen := make(map[string]struct{})
	var codes []string
	malformed := 0
	for _, row := range rows {
		text := strings.ToUpper(width.Fold.String(row.Codes))
		if strings.TrimSpace(text) == "" {
			continue
		}
		found := similarGroupCode.FindAllString(text, -1)
		if len(found) == 0 {
			malformed++
			continue
		}
		for _, c := range found {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return strings.Join(codes, " "), malformed
}

//Personal.AI order the ending
