package query

import (
	"strings"

	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// BaseMode is the primary mark-text matching strategy.
type BaseMode string

const (
	BasePlain    BaseMode = "plain"
	BaseEnhanced BaseMode = "enhanced"
	BaseTMSonar  BaseMode = "tm_sonar"
)

// Mode selects how mark text and applicant names are matched.
type Mode struct {
	Base          BaseMode
	Pronunciation bool
	Fuzzy         bool
}

// DefaultMode is used when no mode is supplied.
var DefaultMode = Mode{Base: BaseEnhanced}

// Enhanced reports whether normalized forms take part in matching.
func (m Mode) Enhanced() bool {
	return m.Base == BaseEnhanced
}

func (m Mode) String() string {
	if m.Base == BaseEnhanced && m.Fuzzy && !m.Pronunciation {
		return "fuzzy"
	}
	s := string(m.Base)
	if m.Pronunciation {
		s += "+pronunciation"
	}
	if m.Fuzzy {
		s += "+fuzzy"
	}
	return s
}

// ParseMode parses "plain", "enhanced", "enhanced+pronunciation", "fuzzy" and
// "tm_sonar", each optionally suffixed with "+fuzzy". The empty string yields
// DefaultMode. Pronunciation is only available on the enhanced base.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}

	parts := strings.Split(s, "+")
	var m Mode
	switch parts[0] {
	case string(BasePlain):
		m.Base = BasePlain
	case string(BaseEnhanced):
		m.Base = BaseEnhanced
	case string(BaseTMSonar), "tmsonar", "tm-sonar":
		m.Base = BaseTMSonar
	case "fuzzy":
		m = Mode{Base: BaseEnhanced, Fuzzy: true}
	default:
		return Mode{}, errors.Newf(errors.ErrCodeUnsupportedMode, "unsupported search mode %q", s)
	}

	for _, opt := range parts[1:] {
		switch opt {
		case "pronunciation":
			if m.Base != BaseEnhanced {
				return Mode{}, errors.Newf(errors.ErrCodeUnsupportedMode,
					"pronunciation matching requires the enhanced mode, got %q", s)
			}
			m.Pronunciation = true
		case "fuzzy":
			m.Fuzzy = true
		default:
			return Mode{}, errors.Newf(errors.ErrCodeUnsupportedMode, "unsupported search mode %q", s)
		}
	}
	return m, nil
}

//Personal.AI order the ending
