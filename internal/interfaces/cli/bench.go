package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

type benchOptions struct {
	file        string
	mode        string
	concurrency int
	repeat      int
	limit       int
	useCache    bool
}

// NewBenchCmd creates the bench command.
func NewBenchCmd() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Replay a query file concurrently and report timings",
		Long: "Replay a query file against the registry. Each non-empty line is either a JSON\n" +
			"search request ({\"criteria\":{...},\"mode\":\"fuzzy\"}) or plain mark text searched\n" +
			"with --mode. Lines starting with # are ignored.",
		Example: "  tmsearch bench -f queries.txt -j 8 -r 5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&opts.file, "file", "f", "", "query file, - for stdin (required)")
	fl.StringVarP(&opts.mode, "mode", "m", "", "mode for plain-text lines (default enhanced)")
	fl.IntVarP(&opts.concurrency, "concurrency", "j", 4, "concurrent searches")
	fl.IntVarP(&opts.repeat, "repeat", "r", 3, "runs per query")
	fl.IntVarP(&opts.limit, "limit", "n", 0, "page size for requests without one (default search.cli_default_limit)")
	fl.BoolVar(&opts.useCache, "cache", false, "serve repeats from the result cache when enabled in config")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// BenchQuery is one parsed line of a query file.
type BenchQuery struct {
	Label   string
	Request search.SearchRequest
}

// ParseBenchQueries reads a query file.
func ParseBenchQueries(r io.Reader, defaultMode string, defaultLimit int) ([]BenchQuery, error) {
	var out []BenchQuery
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var dto search.SearchRequestDTO
		if strings.HasPrefix(line, "{") {
			if err := json.Unmarshal([]byte(line), &dto); err != nil {
				return nil, errors.InvalidParam(fmt.Sprintf("line %d: %v", lineNo, err))
			}
		} else {
			dto = search.SearchRequestDTO{Criteria: search.CriteriaDTO{MarkText: line}, Mode: defaultMode}
		}
		if dto.Limit == nil {
			dto.Limit = search.IntPtr(defaultLimit)
		}
		req, err := dto.ToRequest()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidCriteria, fmt.Sprintf("line %d", lineNo))
		}
		out = append(out, BenchQuery{Label: truncate(line, 40), Request: req})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.InvalidParam("query file contains no queries")
	}
	return out, nil
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.concurrency < 1 || opts.repeat < 1 {
		return errors.InvalidParam("concurrency and repeat must be at least 1")
	}

	limit := cliCtx.Config.Search.CLIDefaultLimit
	if cmd.Flags().Changed("limit") {
		limit = opts.limit
	}

	var in io.Reader = cmd.InOrStdin()
	if opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return errors.InvalidParam(fmt.Sprintf("cannot open query file: %v", err))
		}
		defer f.Close()
		in = f
	}
	queries, err := ParseBenchQueries(in, opts.mode, limit)
	if err != nil {
		return err
	}

	ctx, cancel := cliCtx.WithTimeout(cmd.Context())
	defer cancel()

	cfg := *cliCtx.Config
	cfg.Cache.Enabled = cfg.Cache.Enabled && opts.useCache
	svc, closeFn, err := cliCtx.deps.OpenService(ctx, &cfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := RunBench(ctx, svc, queries, opts.concurrency, opts.repeat, cliCtx.Logger)
	if err != nil {
		return err
	}
	return PrintResult(cmd, report)
}

// benchSample is the outcome of one search run.
type benchSample struct {
	took  time.Duration
	total int64
	err   error
}

// RunBench executes every query repeat times on a pool of concurrency
// workers.
func RunBench(ctx context.Context, svc search.Service, queries []BenchQuery, concurrency, repeat int, logger logging.Logger) (*BenchReport, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	samples := make([][]benchSample, len(queries))
	for i := range samples {
		samples[i] = make([]benchSample, repeat)
	}

	var wg sync.WaitGroup
	start := time.Now()
	for qi := range queries {
		for rep := 0; rep < repeat; rep++ {
			wg.Add(1)
			task := func() {
				defer wg.Done()
				t0 := time.Now()
				res, err := svc.Search(ctx, queries[qi].Request)
				s := benchSample{took: time.Since(t0), err: err}
				if res != nil {
					s.total = res.Total
				}
				samples[qi][rep] = s
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				samples[qi][rep] = benchSample{err: err}
			}
		}
	}
	wg.Wait()

	report := &BenchReport{
		Concurrency: concurrency,
		Repeat:      repeat,
		ElapsedMS:   ms(time.Since(start)),
	}
	for qi, q := range queries {
		stat := summarize(samples[qi])
		stat.Query = q.Label
		stat.Mode = q.Request.Mode.String()
		if stat.Errors > 0 {
			logger.Warn("Bench query failed",
				logging.String("query", q.Label),
				logging.Int("errors", stat.Errors),
				logging.String("last_error", stat.LastError))
		}
		report.Queries = append(report.Queries, stat)
	}
	return report, nil
}

// BenchStat summarizes the runs of one query. Times are in milliseconds and
// cover successful runs only.
type BenchStat struct {
	Query     string  `json:"query"`
	Mode      string  `json:"mode"`
	Runs      int     `json:"runs"`
	Errors    int     `json:"errors"`
	LastError string  `json:"last_error,omitempty"`
	Total     int64   `json:"total"`
	MinMS     float64 `json:"min_ms"`
	AvgMS     float64 `json:"avg_ms"`
	P95MS     float64 `json:"p95_ms"`
	MaxMS     float64 `json:"max_ms"`
}

// BenchReport is the result of a bench run.
type BenchReport struct {
	Concurrency int         `json:"concurrency"`
	Repeat      int         `json:"repeat"`
	ElapsedMS   float64     `json:"elapsed_ms"`
	Queries     []BenchStat `json:"queries"`
}

func summarize(samples []benchSample) BenchStat {
	stat := BenchStat{Runs: len(samples)}
	ok := make([]time.Duration, 0, len(samples))
	for _, s := range samples {
		if s.err != nil {
			stat.Errors++
			stat.LastError = s.err.Error()
			continue
		}
		ok = append(ok, s.took)
		stat.Total = s.total
	}
	if len(ok) == 0 {
		return stat
	}
	sort.Slice(ok, func(i, j int) bool { return ok[i] < ok[j] })

	var sum time.Duration
	for _, d := range ok {
		sum += d
	}
	rank := int(math.Ceil(0.95*float64(len(ok)))) - 1
	stat.MinMS = ms(ok[0])
	stat.AvgMS = ms(sum / time.Duration(len(ok)))
	stat.P95MS = ms(ok[rank])
	stat.MaxMS = ms(ok[len(ok)-1])
	return stat
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (r *BenchReport) TableHeaders() []string {
	return []string{"Query", "Mode", "Runs", "Errors", "Total", "Min ms", "Avg ms", "P95 ms", "Max ms"}
}

func (r *BenchReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Queries))
	for _, q := range r.Queries {
		rows = append(rows, []string{
			q.Query,
			q.Mode,
			fmt.Sprintf("%d", q.Runs),
			fmt.Sprintf("%d", q.Errors),
			fmt.Sprintf("%d", q.Total),
			fmt.Sprintf("%.1f", q.MinMS),
			fmt.Sprintf("%.1f", q.AvgMS),
			fmt.Sprintf("%.1f", q.P95MS),
			fmt.Sprintf("%.1f", q.MaxMS),
		})
	}
	return rows
}

func (r *BenchReport) String() string {
	return FormatTable(r.TableHeaders(), r.TableRows()) +
		fmt.Sprintf("\n%d queries x %d runs, concurrency %d, elapsed %.1f ms\n",
			len(r.Queries), r.Repeat, r.Concurrency, r.ElapsedMS)
}

//Personal.AI order the ending
