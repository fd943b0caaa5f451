package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
)

// NewNormalizeCmd creates the normalize command. It needs no backend.
func NewNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <text>...",
		Short:   "Print every normalized form of the given text",
		Example: "  tmsearch normalize \"ブルー・スカイ株式会社\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, formsView{normalize.All(strings.Join(args, " "))})
		},
	}
}

type formsView struct {
	forms normalize.Forms
}

func (v formsView) MarshalJSON() ([]byte, error) { return json.Marshal(v.forms) }

func (v formsView) String() string {
	var sb strings.Builder
	for _, row := range v.TableRows() {
		fmt.Fprintf(&sb, "%-18s %s\n", row[0], row[1])
	}
	return sb.String()
}

func (v formsView) TableHeaders() []string { return []string{"Form", "Value"} }

func (v formsView) TableRows() [][]string {
	f := v.forms
	rows := [][]string{
		{"input", f.Input},
		{"basic", f.Basic},
		{"pronunciation", f.Pronunciation},
		{"trademark", f.Trademark},
		{"applicant", f.Applicant},
	}
	if len(f.Components) > 0 {
		rows = append(rows, []string{"components", strings.Join(f.Components, " | ")})
	}
	if f.ApplicationNumber != "" {
		rows = append(rows, []string{"application_number", f.ApplicationNumber})
	}
	return rows
}

//Personal.AI order the ending
