package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// criteriaFlags binds the search field flags shared by search and latest.
type criteriaFlags struct {
	app       string
	mark      string
	applicant string
	class     string
	goods     string
	group     string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.app, "app", "", "application number (hyphens allowed)")
	fl.StringVar(&f.mark, "mark", "", "mark text")
	fl.StringVar(&f.applicant, "applicant", "", "applicant name")
	fl.StringVar(&f.class, "class", "", "goods/services classes, space separated")
	fl.StringVar(&f.goods, "goods", "", "designated goods terms, space separated")
	fl.StringVar(&f.group, "group", "", "similar-group codes, space separated")
}

func (f criteriaFlags) dto() search.CriteriaDTO {
	return search.CriteriaDTO{
		ApplicationNumber: f.app,
		MarkText:          f.mark,
		ApplicantName:     f.applicant,
		Classification:    f.class,
		DesignatedGoods:   f.goods,
		SimilarGroupCodes: f.group,
	}
}

type searchOptions struct {
	criteria criteriaFlags
	mode     string
	limit    int
	offset   int
	order    string
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search trademarks by any combination of fields",
		Long: "Search trademarks. Fields are AND'ed together; each field matches as a substring.\n" +
			"Modes: plain, enhanced, enhanced+pronunciation, fuzzy, tm_sonar.",
		Example: "  tmsearch search --mark ブルースカイ --class 09 --mode enhanced+pronunciation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}
	opts.criteria.register(cmd)
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "match mode (default enhanced)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "page size (default search.cli_default_limit)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "number of matches to skip")
	cmd.Flags().StringVar(&opts.order, "order", "asc", "application number order: asc|desc")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *searchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	dto := search.SearchRequestDTO{
		Criteria: opts.criteria.dto(),
		Mode:     opts.mode,
		Offset:   opts.offset,
		Order:    opts.order,
	}
	limit := cliCtx.Config.Search.CLIDefaultLimit
	if cmd.Flags().Changed("limit") {
		limit = opts.limit
	}
	dto.Limit = search.IntPtr(limit)

	req, err := dto.ToRequest()
	if err != nil {
		return err
	}
	if err := req.Criteria.Validate(); err != nil {
		return err
	}

	ctx, cancel := cliCtx.WithTimeout(cmd.Context())
	defer cancel()
	svc, closeFn, err := cliCtx.OpenService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Search(ctx, req)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("Search finished",
		logging.String("mode", res.Mode),
		logging.Int64("total", res.Total),
		logging.Int("returned", len(res.Records)))
	return PrintResult(cmd, resultView{res})
}

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <application-number>",
		Short:   "Show one trademark by application number",
		Example: "  tmsearch get 2020-000001",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			svc, closeFn, err := cliCtx.OpenService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, recordView{rec})
		},
	}
}

type latestOptions struct {
	criteria criteriaFlags
	limit    int
}

// NewLatestCmd creates the latest command.
func NewLatestCmd() *cobra.Command {
	opts := &latestOptions{}
	cmd := &cobra.Command{
		Use:     "latest",
		Short:   "Browse the newest applications matching the given fields",
		Example: "  tmsearch latest --class 09 -n 20",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			limit := cliCtx.Config.Search.CLIDefaultLimit
			if cmd.Flags().Changed("limit") {
				if opts.limit < 0 {
					return errors.InvalidCriteria(fmt.Sprintf("limit must not be negative, got %d", opts.limit))
				}
				limit = opts.limit
			}
			criteria := opts.criteria.dto().Criteria()
			if err := criteria.Validate(); err != nil {
				return err
			}

			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			svc, closeFn, err := cliCtx.OpenService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Latest(ctx, criteria, limit)
			if err != nil {
				return err
			}
			return PrintResult(cmd, resultView{res})
		},
	}
	opts.criteria.register(cmd)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "number of applications (default search.cli_default_limit)")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// Rendering
// ─────────────────────────────────────────────────────────────────────────────

// resultView renders a search page.
type resultView struct {
	res *search.SearchResult
}

func (v resultView) MarshalJSON() ([]byte, error) { return json.Marshal(v.res) }

func (v resultView) String() string {
	var sb strings.Builder
	for i := range v.res.Records {
		sb.WriteString(formatRecord(v.res.Offset+i+1, &v.res.Records[i]))
		sb.WriteString("\n")
	}
	sb.WriteString(summaryLine(v.res))
	return sb.String()
}

func (v resultView) TableHeaders() []string {
	return []string{"#", "Application", "Mark", "Applicant", "Classes", "Filed", "Registration"}
}

func (v resultView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.res.Records))
	for i, r := range v.res.Records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.res.Offset+i+1),
			r.ApplicationNumberHyphenated,
			truncate(r.MarkText, 24),
			truncate(applicantLabel(&r), 24),
			r.Classes,
			trademark.FormatDate(r.FilingDate),
			r.RegistrationNumber,
		})
	}
	return rows
}

func summaryLine(res *search.SearchResult) string {
	if len(res.Records) == 0 {
		return fmt.Sprintf("No matches (%d total, mode %s)\n", res.Total, res.Mode)
	}
	first := res.Offset + 1
	last := res.Offset + len(res.Records)
	return fmt.Sprintf("%d-%d of %d (mode %s)\n", first, last, res.Total, res.Mode)
}

// recordView renders one record.
type recordView struct {
	rec *trademark.Record
}

func (v recordView) MarshalJSON() ([]byte, error) { return json.Marshal(v.rec) }

func (v recordView) String() string { return formatRecord(0, v.rec) }

func (v recordView) TableHeaders() []string { return []string{"Field", "Value"} }

func (v recordView) TableRows() [][]string {
	r := v.rec
	return [][]string{
		{"Application", r.ApplicationNumberHyphenated},
		{"Mark", r.MarkText},
		{"Phonetic", r.Phonetic},
		{"Image", fmt.Sprintf("%t", r.HasImage)},
		{"Filed", trademark.FormatDate(r.FilingDate)},
		{"Registered", trademark.FormatDate(r.RegistrationDate)},
		{"Registration", r.RegistrationNumber},
		{"Gazette", trademark.FormatDate(r.RegistrationGazetteDate)},
		{"Published", trademark.FormatDate(r.PublicationDate)},
		{"Expires", trademark.FormatDate(r.ExpiryDate)},
		{"Trial decision", trademark.FormatDate(r.TrialDecisionDate)},
		{"Applicant", applicantLabel(r)},
		{"Applicant address", r.ApplicantAddress},
		{"Classes", r.Classes},
		{"Goods", r.DesignatedGoods},
		{"Similar groups", r.SimilarGroupCodes},
		{"Rights holder", r.RightsHolderName},
	}
}

func formatRecord(n int, r *trademark.Record) string {
	var sb strings.Builder
	head := color.New(color.Bold).Sprint(r.ApplicationNumberHyphenated)
	if n > 0 {
		fmt.Fprintf(&sb, "[%d] ", n)
	}
	fmt.Fprintf(&sb, "%s  %s\n", head, r.MarkText)
	if r.Phonetic != "" && r.Phonetic != r.MarkText {
		fmt.Fprintf(&sb, "    phonetic   %s\n", r.Phonetic)
	}
	fmt.Fprintf(&sb, "    filed      %s", trademark.FormatDate(r.FilingDate))
	if r.RegistrationNumber != "" {
		fmt.Fprintf(&sb, "  registered %s (%s)", trademark.FormatDate(r.RegistrationDate), r.RegistrationNumber)
	}
	sb.WriteString("\n")
	if label := applicantLabel(r); label != "" {
		fmt.Fprintf(&sb, "    applicant  %s\n", label)
	}
	if r.Classes != "" {
		fmt.Fprintf(&sb, "    classes    %s\n", r.Classes)
	}
	if r.DesignatedGoods != "" {
		fmt.Fprintf(&sb, "    goods      %s\n", truncate(r.DesignatedGoods, 60))
	}
	if r.SimilarGroupCodes != "" {
		fmt.Fprintf(&sb, "    groups     %s\n", r.SimilarGroupCodes)
	}
	if r.RightsHolderName != "" {
		fmt.Fprintf(&sb, "    holder     %s\n", r.RightsHolderName)
	}
	return sb.String()
}

// applicantLabel shows inferred applicants with their confidence.
func applicantLabel(r *trademark.Record) string {
	if r.ApplicantSource == trademark.ApplicantFromMapping && r.ApplicantConfidence != "" {
		return r.ApplicantName + " " + colorizeConfidence(r.ApplicantConfidence)
	}
	return r.ApplicantName
}

func colorizeConfidence(c trademark.Confidence) string {
	label := "[" + string(c) + "]"
	switch c {
	case trademark.ConfidenceHigh:
		return color.GreenString(label)
	case trademark.ConfidenceMedium:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	if n <= 1 {
		return string(rs[:n])
	}
	return string(rs[:n-1]) + "…"
}

//Personal.AI order the ending
