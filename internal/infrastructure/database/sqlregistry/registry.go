package sqlregistry

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// DefaultBatchSize bounds the identifiers bound into one IN list. It keeps
// detail queries under SQLite's host parameter limit.
const DefaultBatchSize = 500

// Executor runs a finished statement. Every selected column is scanned as a
// nullable string so one decoder serves all drivers.
type Executor interface {
	QueryStrings(ctx context.Context, query string, args []interface{}, width int) ([][]sql.NullString, error)
	QueryCount(ctx context.Context, query string, args []interface{}) (int64, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.batch = n
		}
	}
}

// WithMetrics records per-query latency and failures.
func WithMetrics(m *prometheus.SearchMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// Registry implements trademark.Registry and trademark.ImagePresence.
type Registry struct {
	exec    Executor
	dialect Dialect
	logger  logging.Logger
	metrics *prometheus.SearchMetrics
	batch   int
}

// New creates a Registry issuing statements in dialect through exec.
func New(exec Executor, dialect Dialect, logger logging.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Registry{
		exec:    exec,
		dialect: dialect,
		logger:  logger.Named("registry"),
		batch:   DefaultBatchSize,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

var (
	_ trademark.Registry      = (*Registry)(nil)
	_ trademark.ImagePresence = (*Registry)(nil)
)

// ----------------------------------------------------------------------------
// Candidate phase
// ----------------------------------------------------------------------------

// CountQuery renders the statement counting distinct candidates for pred.
func (r *Registry) CountQuery(pred query.Predicate) (string, []interface{}, error) {
	sb := r.dialect.Flavor().NewSelectBuilder()
	sb.Select("COUNT(DISTINCT " + coreKey + ")").From(coreTable)
	if err := r.where(sb, pred); err != nil {
		return "", nil, err
	}
	q, args := sb.Build()
	return q, args, nil
}

// PageQuery renders the statement selecting one page of candidates.
func (r *Registry) PageQuery(pred query.Predicate, page trademark.PageRequest) (string, []interface{}, error) {
	sb := r.dialect.Flavor().NewSelectBuilder()
	sb.Distinct().Select(coreKey).From(coreTable)
	if err := r.where(sb, pred); err != nil {
		return "", nil, err
	}
	sb.OrderBy(coreKey)
	if page.Order == trademark.OrderDesc {
		sb.Desc()
	} else {
		sb.Asc()
	}
	sb.Limit(page.Limit).Offset(page.Offset)
	q, args := sb.Build()
	return q, args, nil
}

func (r *Registry) where(sb *sqlbuilder.SelectBuilder, pred query.Predicate) error {
	e, err := translator{dialect: r.dialect, cond: &sb.Cond}.expr(pred.Root)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidCriteria, "predicate cannot be expressed in SQL")
	}
	if e != "" {
		sb.Where(e)
	}
	return nil
}

// CountCandidates implements trademark.Registry.
func (r *Registry) CountCandidates(ctx context.Context, pred query.Predicate) (int64, error) {
	q, args, err := r.CountQuery(pred)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n, err := r.exec.QueryCount(ctx, q, args)
	r.observe("count", start, err)
	if err != nil {
		return 0, r.unavailable(err, "count")
	}
	return n, nil
}

// PageCandidates implements trademark.Registry.
func (r *Registry) PageCandidates(ctx context.Context, pred query.Predicate, page trademark.PageRequest) ([]string, error) {
	if page.Limit <= 0 {
		return []string{}, nil
	}
	q, args, err := r.PageQuery(pred, page)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.exec.QueryStrings(ctx, q, args, 1)
	r.observe("page", start, err)
	if err != nil {
		return nil, r.unavailable(err, "page")
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row[0].Valid {
			ids = append(ids, row[0].String)
		}
	}
	return ids, nil
}

// ----------------------------------------------------------------------------
// Detail phase
// ----------------------------------------------------------------------------

// detail describes one batch lookup keyed by a column that is bound to the
// page's identifiers.
type detail struct {
	op      string
	columns []string
	from    string
	key     string
	filter  string
}

func (r *Registry) fetch(ctx context.Context, d detail, ids []string) ([][]sql.NullString, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out [][]sql.NullString
	for start := 0; start < len(ids); start += r.batch {
		end := start + r.batch
		if end > len(ids) {
			end = len(ids)
		}
		sb := r.dialect.Flavor().NewSelectBuilder()
		sb.Select(d.columns...).From(d.from)
		where := []string{sb.In(d.key, sqlbuilder.List(ids[start:end]))}
		if d.filter != "" {
			where = append(where, d.filter)
		}
		sb.Where(where...)
		q, args := sb.Build()

		began := time.Now()
		rows, err := r.exec.QueryStrings(ctx, q, args, len(d.columns))
		r.observe(d.op, began, err)
		if err != nil {
			return nil, r.unavailable(err, d.op)
		}
		out = append(out, rows...)
	}
	return out, nil
}

// fetchAll runs the lookups concurrently and returns their rows in order.
func (r *Registry) fetchAll(ctx context.Context, ids []string, ds ...detail) ([][][]sql.NullString, error) {
	out := make([][][]sql.NullString, len(ds))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range ds {
		g.Go(func() error {
			rows, err := r.fetch(gctx, d, ids)
			out[i] = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

var applicationsDetail = detail{
	op: "applications",
	columns: []string{
		coreKey,
		"je.shutugan_bi",
		"je.toroku_bi",
		"COALESCE(je.raz_toroku_no, tbi.reg_num)",
		"je.raz_kohohakko_bi",
		"je.pcz_kokaikohohakko_bi",
		"tbi.conti_prd_expire_dt",
		"mgi.trial_dcsn_year_month_day",
		"mgi.processing_type",
	},
	from: coreTable +
		" LEFT JOIN jiken_c_t_enhanced je ON je.normalized_app_num = " + coreKey +
		" LEFT JOIN t_basic_item_enhanced tbi ON tbi.normalized_app_num = " + coreKey +
		" LEFT JOIN mgt_info_enhanced mgi ON mgi.normalized_app_num = " + coreKey,
	key: coreKey,
}

// Applications implements trademark.Registry. When joins fan out, the first
// row per application wins.
func (r *Registry) Applications(ctx context.Context, ids []string) ([]trademark.Application, error) {
	rows, err := r.fetch(ctx, applicationsDetail, ids)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rows))
	out := make([]trademark.Application, 0, len(rows))
	for _, row := range rows {
		id := str(row[0])
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, trademark.Application{
			Number:                  id,
			FilingDate:              str(row[1]),
			RegistrationDate:        str(row[2]),
			RegistrationNumber:      str(row[3]),
			RegistrationGazetteDate: str(row[4]),
			PublicationDate:         str(row[5]),
			ExpiryDate:              str(row[6]),
			TrialDecisionDate:       str(row[7]),
			TrialType:               str(row[8]),
		})
	}
	return out, nil
}

var variantDetails = []struct {
	kind trademark.VariantKind
	detail
}{
	{trademark.VariantStandardCharacter, detail{op: "variants", columns: []string{"normalized_app_num", "standard_char_t"}, from: "standard_char_t_art", key: "normalized_app_num"}},
	{trademark.VariantDisplay, detail{op: "variants", columns: []string{"normalized_app_num", "indct_use_t"}, from: "indct_use_t_art", key: "normalized_app_num"}},
	{trademark.VariantSearchForm, detail{op: "variants", columns: []string{"normalized_app_num", "search_use_t"}, from: "search_use_t_art_table", key: "normalized_app_num"}},
	{trademark.VariantPhonetic, detail{op: "variants", columns: []string{"normalized_app_num", "dsgnt"}, from: "t_dsgnt_art", key: "normalized_app_num"}},
}

// MarkVariants implements trademark.Registry.
func (r *Registry) MarkVariants(ctx context.Context, ids []string) ([]trademark.MarkVariant, error) {
	ds := make([]detail, len(variantDetails))
	for i, v := range variantDetails {
		ds[i] = v.detail
	}
	sets, err := r.fetchAll(ctx, ids, ds...)
	if err != nil {
		return nil, err
	}
	var out []trademark.MarkVariant
	for i, rows := range sets {
		for _, row := range rows {
			out = append(out, trademark.MarkVariant{Number: str(row[0]), Kind: variantDetails[i].kind, Text: str(row[1])})
		}
	}
	return out, nil
}

var (
	goodsClassDetail = detail{
		op: "classifications", columns: []string{"normalized_app_num", "goods_classes"},
		from: "goods_class_art", key: "normalized_app_num",
	}
	goodsDetail = detail{
		op: "classifications", columns: []string{"normalized_app_num", "rui", "designated_goods"},
		from: "jiken_c_t_shohin_joho", key: "normalized_app_num",
	}
)

// Classifications implements trademark.Registry. Rows from the class table
// carry no goods text.
func (r *Registry) Classifications(ctx context.Context, ids []string) ([]trademark.Classification, error) {
	sets, err := r.fetchAll(ctx, ids, goodsClassDetail, goodsDetail)
	if err != nil {
		return nil, err
	}
	var out []trademark.Classification
	for _, row := range sets[0] {
		out = append(out, trademark.Classification{Number: str(row[0]), ClassNumber: str(row[1])})
	}
	for _, row := range sets[1] {
		out = append(out, trademark.Classification{Number: str(row[0]), ClassNumber: str(row[1]), DesignatedGoods: str(row[2])})
	}
	return out, nil
}

var similarGroupDetail = detail{
	op: "similar_groups", columns: []string{"normalized_app_num", "smlr_dsgn_group_cd"},
	from: "t_knd_info_art_table", key: "normalized_app_num",
}

// SimilarGroups implements trademark.Registry.
func (r *Registry) SimilarGroups(ctx context.Context, ids []string) ([]trademark.SimilarGroup, error) {
	rows, err := r.fetch(ctx, similarGroupDetail, ids)
	if err != nil {
		return nil, err
	}
	out := make([]trademark.SimilarGroup, 0, len(rows))
	for _, row := range rows {
		out = append(out, trademark.SimilarGroup{Number: str(row[0]), Codes: str(row[1])})
	}
	return out, nil
}

var (
	applicantDetail = detail{
		op: "applicants",
		columns: []string{
			"ap.shutugan_no", "ap.shutugannindairinin_code",
			"amf.appl_name", "amf.appl_cana_name", "amf.wes_join_name", "amf.appl_addr",
			"am.appl_name", "am.appl_addr",
		},
		from: applicantLink +
			" LEFT JOIN applicant_master_full amf ON amf.appl_cd = ap.shutugannindairinin_code" +
			" LEFT JOIN applicant_master am ON am.appl_cd = ap.shutugannindairinin_code",
		key:    "ap.shutugan_no",
		filter: "ap.shutugannindairinin_sikbt = '1'",
	}
	mappingDetail = detail{
		op:      "applicant_mappings",
		columns: []string{"applicant_code", "applicant_name", "applicant_addr", "CAST(trademark_count AS TEXT)"},
		from:    "applicant_mapping",
		key:     "applicant_code",
	}
)

// Applicants implements trademark.Registry. Mapping rows are attached by
// applicant code in a second lookup.
func (r *Registry) Applicants(ctx context.Context, ids []string) ([]trademark.Applicant, error) {
	rows, err := r.fetch(ctx, applicantDetail, ids)
	if err != nil {
		return nil, err
	}
	out := make([]trademark.Applicant, 0, len(rows))
	var codes []string
	seenCode := make(map[string]bool)
	for _, row := range rows {
		a := trademark.Applicant{
			Number:            str(row[0]),
			Code:              str(row[1]),
			MasterName:        str(row[2]),
			MasterKanaName:    str(row[3]),
			MasterWesternName: str(row[4]),
			MasterAddress:     str(row[5]),
			LegacyName:        str(row[6]),
			LegacyAddress:     str(row[7]),
		}
		out = append(out, a)
		if a.Code != "" && !seenCode[a.Code] {
			seenCode[a.Code] = true
			codes = append(codes, a.Code)
		}
	}

	mrows, err := r.fetch(ctx, mappingDetail, codes)
	if err != nil {
		return nil, err
	}
	mappings := make(map[string][]trademark.ApplicantMapping)
	for _, row := range mrows {
		count, perr := strconv.Atoi(str(row[3]))
		if perr != nil && row[3].Valid {
			r.logger.Warn("unparseable trademark count", logging.String("applicant_code", str(row[0])), logging.Err(perr))
		}
		mappings[str(row[0])] = append(mappings[str(row[0])], trademark.ApplicantMapping{
			Name:           str(row[1]),
			Address:        str(row[2]),
			TrademarkCount: count,
		})
	}
	for i := range out {
		out[i].Mappings = mappings[out[i].Code]
	}
	return out, nil
}

var rightsHolderDetail = detail{
	op:      "rights_holders",
	columns: []string{"rm.app_num", "h.reg_num", "h.right_person_name", "h.right_person_addr"},
	from:    "reg_mapping rm JOIN right_person_art_t h ON h.reg_num = rm.reg_num",
	key:     "rm.app_num",
}

// RightsHolders implements trademark.Registry.
func (r *Registry) RightsHolders(ctx context.Context, ids []string) ([]trademark.RightsHolder, error) {
	rows, err := r.fetch(ctx, rightsHolderDetail, ids)
	if err != nil {
		return nil, err
	}
	out := make([]trademark.RightsHolder, 0, len(rows))
	for _, row := range rows {
		out = append(out, trademark.RightsHolder{
			Number:             str(row[0]),
			RegistrationNumber: str(row[1]),
			Name:               str(row[2]),
			Address:            str(row[3]),
		})
	}
	return out, nil
}

var imageDetail = detail{
	op:      "images",
	columns: []string{"DISTINCT normalized_app_num"},
	from:    "t_sample",
	key:     "normalized_app_num",
	filter:  "image_data IS NOT NULL",
}

// HasImages implements trademark.ImagePresence from stored sample images.
func (r *Registry) HasImages(ctx context.Context, ids []string) (map[string]bool, error) {
	rows, err := r.fetch(ctx, imageDetail, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row[0].Valid {
			out[row[0].String] = true
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func str(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func (r *Registry) observe(op string, start time.Time, err error) {
	prometheus.RecordRegistryQuery(r.metrics, r.dialect.Name(), op, time.Since(start), err)
}

func (r *Registry) unavailable(err error, op string) error {
	if errors.IsBackendUnavailable(err) {
		return err
	}
	r.logger.Error("registry query failed", logging.String("operation", op), logging.Err(err))
	return errors.BackendUnavailable(err, "registry "+op+" query failed")
}

//Personal.AI order the ending
