package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/bootstrap"
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// ServiceOpener builds the search service for one invocation. The returned
// func releases whatever was opened.
type ServiceOpener func(ctx context.Context, cfg *config.Config, logger logging.Logger) (search.Service, func(), error)

// EventPublisher publishes registry events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType, source string, payload interface{}) (*kafka.EventEnvelope, error)
	Close() error
}

// PublisherOpener connects an EventPublisher.
type PublisherOpener func(cfg *config.Config, logger logging.Logger) (EventPublisher, error)

// Dependencies lets callers replace the backends commands connect to.
// Nil fields select the configured infrastructure.
type Dependencies struct {
	OpenService   ServiceOpener
	OpenPublisher PublisherOpener
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration

	deps Dependencies
}

// OpenService connects the search service.
func (c *CLIContext) OpenService(ctx context.Context) (search.Service, func(), error) {
	return c.deps.OpenService(ctx, c.Config, c.Logger)
}

// OpenPublisher connects the registry event publisher.
func (c *CLIContext) OpenPublisher() (EventPublisher, error) {
	return c.deps.OpenPublisher(c.Config, c.Logger)
}

// WithTimeout bounds ctx by the --timeout flag.
func (c *CLIContext) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// NewRootCommand creates the root command with all global flags and
// subcommands.
func NewRootCommand(deps Dependencies) *cobra.Command {
	if deps.OpenService == nil {
		deps.OpenService = openService
	}
	if deps.OpenPublisher == nil {
		deps.OpenPublisher = openPublisher
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tmsearch",
		Short: "Search the trademark registry",
		Long: "tmsearch queries the trademark registry by application number, mark text,\n" +
			"applicant, class, designated goods and similar-group codes.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./tmsearch.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")

	cmd.AddCommand(
		NewSearchCmd(),
		NewGetCmd(),
		NewLatestCmd(),
		NewNormalizeCmd(),
		NewBenchCmd(),
		NewInvalidateCmd(),
	)
	return cmd
}

// persistentPreRun initializes config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table":
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q", opts.OutputFormat))
	}

	cfg, err := initConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      color.NoColor,
		Timeout:      opts.Timeout,
		deps:         deps,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./tmsearch.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".tmsearch", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/tmsearch/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}

	if opts.Verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), "no config file found, using environment and defaults")
	}
	return config.LoadFromEnv()
}

// initLogger creates a console logger writing to stderr so stdout stays
// machine-readable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func openService(ctx context.Context, cfg *config.Config, logger logging.Logger) (search.Service, func(), error) {
	infra, err := bootstrap.Open(ctx, cfg, logger, nil)
	if err != nil {
		return nil, nil, err
	}
	return infra.SearchService(), infra.Close, nil
}

func openPublisher(cfg *config.Config, logger logging.Logger) (EventPublisher, error) {
	p, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers}, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand(Dependencies{})
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// tableProvider is implemented by results with a tabular rendering.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch cliCtx.OutputFormat {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprint(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// FormatTable renders headers and rows as an aligned table. Full-width
// characters count as two columns.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if w := displayWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, colWidths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// displayWidth counts terminal columns; East Asian wide and full-width runes
// take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRight(s string, w int) string {
	if d := w - displayWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

//Personal.AI order the ending
