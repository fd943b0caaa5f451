// Package trademark defines the read-only registry model the search engine
// resolves over: applications, their competing mark-text variants,
// classification rows, applicant identities and rights holders, plus the
// canonical Record assembled for callers.
package trademark

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// Display constants used when a value is absent or substituted.
const (
	// NotSet is the rendered form of an absent or malformed date.
	NotSet = "未設定"
	// ImagePlaceholder replaces the mark text when an image exists.
	ImagePlaceholder = "[画像商標]"
	// EstimatedSuffix annotates applicant names taken from the heuristic mapping.
	EstimatedSuffix = " (推定)"
	// CodeOnlyPrefix prefixes applicant codes with no resolvable name.
	CodeOnlyPrefix = "コード:"
)

// ─────────────────────────────────────────────────────────────────────────────
// Application number
// ─────────────────────────────────────────────────────────────────────────────

// ApplicationNumber is the normalized, digits-only application identifier.
type ApplicationNumber string

// ParseApplicationNumber strips hyphens and whitespace and requires the
// remainder to be digits.
func ParseApplicationNumber(s string) (ApplicationNumber, error) {
	n, ok := normalize.ApplicationNumber(s)
	if !ok {
		return "", errors.InvalidCriteria("invalid application number: " + strings.TrimSpace(s))
	}
	return ApplicationNumber(n), nil
}

func (n ApplicationNumber) String() string { return string(n) }

// Hyphenated renders a ten-digit number as YYYY-NNNNNN. Other lengths are
// returned unchanged.
func (n ApplicationNumber) Hyphenated() string {
	s := string(n)
	if len(s) != 10 {
		return s
	}
	return s[:4] + "-" + s[4:]
}

var eightDigits = regexp.MustCompile(`^\d{8}$`)

// FormatDate renders a YYYYMMDD string as YYYY/MM/DD. Anything else,
// including the empty string, renders as NotSet.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if !eightDigits.MatchString(s) {
		return NotSet
	}
	return s[:4] + "/" + s[4:6] + "/" + s[6:]
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry fragments
// ─────────────────────────────────────────────────────────────────────────────

// Application is the core application row. Dates are raw YYYYMMDD strings.
type Application struct {
	Number                  string
	FilingDate              string
	RegistrationDate        string
	RegistrationNumber      string
	RegistrationGazetteDate string
	PublicationDate         string
	ExpiryDate              string
	TrialDecisionDate       string
	TrialType               string
}

// VariantKind tags one textual representation of a mark.
type VariantKind string

const (
	VariantStandardCharacter VariantKind = "standard"
	VariantDisplay           VariantKind = "display"
	VariantSearchForm        VariantKind = "search"
	VariantPhonetic          VariantKind = "phonetic"
	VariantImage             VariantKind = "image"
)

// MarkVariant is one competing textual representation of a mark.
type MarkVariant struct {
	Number string
	Kind   VariantKind
	Text   string
}

// Classification is one class or designated-goods row. Either field may be
// empty; duplicates across rows are legal.
type Classification struct {
	Number          string
	ClassNumber     string
	DesignatedGoods string
}

// SimilarGroup is one raw similar-group fragment, possibly holding several
// codes or malformed text.
type SimilarGroup struct {
	Number string
	Codes  string
}

// ApplicantMapping is a heuristic name derived for an applicant code.
type ApplicantMapping struct {
	Name           string
	Address        string
	TrademarkCount int
}

// Applicant joins an application to one applicant code and every identity
// source known for that code.
type Applicant struct {
	Number string
	Code   string

	MasterName        string
	MasterKanaName    string
	MasterWesternName string
	MasterAddress     string

	LegacyName    string
	LegacyAddress string

	Mappings []ApplicantMapping
}

// RightsHolder is the registered owner, reached through the registration
// number bridge.
type RightsHolder struct {
	Number             string
	RegistrationNumber string
	Name               string
	Address            string
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonical record
// ─────────────────────────────────────────────────────────────────────────────

// ApplicantSource records which identity source supplied the display name.
type ApplicantSource string

const (
	ApplicantFromMaster  ApplicantSource = "master"
	ApplicantFromLegacy  ApplicantSource = "legacy"
	ApplicantFromMapping ApplicantSource = "mapping"
	ApplicantFromCode    ApplicantSource = "code"
	ApplicantUnknown     ApplicantSource = ""
)

// Confidence grades heuristic applicant names.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = ""
)

// ConfidenceFor grades a heuristic mapping by how many trademarks support it.
func ConfidenceFor(trademarkCount int) Confidence {
	switch {
	case trademarkCount >= 20:
		return ConfidenceHigh
	case trademarkCount >= 5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Record is the assembled, display-ready view of one application. Absent
// values are "" or false, never nil.
type Record struct {
	ApplicationNumber           string `json:"application_number"`
	ApplicationNumberHyphenated string `json:"application_number_hyphenated"`

	FilingDate              string `json:"filing_date"`
	RegistrationDate        string `json:"registration_date"`
	RegistrationNumber      string `json:"registration_number"`
	RegistrationGazetteDate string `json:"registration_gazette_date"`
	PublicationDate         string `json:"publication_date"`
	ExpiryDate              string `json:"expiry_date"`
	TrialDecisionDate       string `json:"trial_decision_date"`
	TrialType               string `json:"trial_type"`

	MarkText       string      `json:"mark_text"`
	MarkTextSource VariantKind `json:"mark_text_source"`
	Phonetic       string      `json:"phonetic"`
	HasImage       bool        `json:"has_image"`

	ApplicantName       string          `json:"applicant_name"`
	ApplicantAddress    string          `json:"applicant_address"`
	ApplicantCode       string          `json:"applicant_code"`
	ApplicantSource     ApplicantSource `json:"applicant_source"`
	ApplicantConfidence Confidence      `json:"applicant_confidence"`

	Classes           string `json:"classes"`
	DesignatedGoods   string `json:"designated_goods"`
	SimilarGroupCodes string `json:"similar_group_codes"`

	RightsHolderName    string `json:"rights_holder_name"`
	RightsHolderAddress string `json:"rights_holder_address"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Placeholder detection
// ─────────────────────────────────────────────────────────────────────────────

// IsPlaceholderName reports whether a registry name is an omitted-value marker
// rather than a real name: text containing 省略, the literal 不明, or text made
// only of symbols and spaces.
func IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || !utf8.ValidString(name) {
		return true
	}
	if strings.Contains(name, "省略") || name == "不明" {
		return true
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
