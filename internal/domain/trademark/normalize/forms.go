package normalize

// Forms is every normalized rendering of one input string.
type Forms struct {
	Input             string   `json:"input"`
	Basic             string   `json:"basic"`
	Pronunciation     string   `json:"pronunciation"`
	Trademark         string   `json:"trademark"`
	Applicant         string   `json:"applicant"`
	Components        []string `json:"components,omitempty"`
	ApplicationNumber string   `json:"application_number,omitempty"`
}

// All computes Forms for text. ApplicationNumber is only set when text
// reduces to a digit string.
func All(text string) Forms {
	f := Forms{
		Input:         text,
		Basic:         Basic(text),
		Pronunciation: Pronunciation(text),
		Trademark:     Trademark(text),
		Applicant:     ApplicantName(text),
		Components:    SplitComponents(text),
	}
	if n, ok := ApplicationNumber(text); ok {
		f.ApplicationNumber = n
	}
	return f
}

//Personal.AI order the ending
