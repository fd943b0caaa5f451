package search

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
)

// Assembler merges registry fragments for a page of identifiers into
// canonical records.
type Assembler struct {
	registry trademark.Registry
	images   trademark.ImagePresence
	logger   logging.Logger
	metrics  *prometheus.SearchMetrics
}

// NewAssembler creates an Assembler. A nil images uses trademark.NoImages.
func NewAssembler(registry trademark.Registry, images trademark.ImagePresence, logger logging.Logger, metrics *prometheus.SearchMetrics) *Assembler {
	if images == nil {
		images = trademark.NoImages{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Assembler{registry: registry, images: images, logger: logger.Named("assembler"), metrics: metrics}
}

// fragments holds every batch fetched for one page, grouped by application.
type fragments struct {
	apps     map[string]trademark.Application
	variants map[string][]trademark.MarkVariant
	classes  map[string][]trademark.Classification
	groups   map[string][]trademark.SimilarGroup
	appls    map[string][]trademark.Applicant
	holders  map[string][]trademark.RightsHolder
	images   map[string]bool
}

// Assemble returns one record per resolvable id in input order. Ids whose
// application row has disappeared are skipped and logged.
func (a *Assembler) Assemble(ctx context.Context, ids []string) ([]trademark.Record, error) {
	if len(ids) == 0 {
		return []trademark.Record{}, nil
	}

	f, err := a.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]trademark.Record, 0, len(ids))
	var missing []string
	for _, id := range ids {
		app, ok := f.apps[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		records = append(records, a.build(app, f))
	}
	if len(missing) > 0 {
		a.logger.Warn("candidates vanished before assembly",
			logging.Int("missing", len(missing)), logging.Strings("application_numbers", missing))
		prometheus.RecordResolutionGap(a.metrics, "assemble", len(missing))
	}
	return records, nil
}

// fetch issues one batched lookup per fragment kind concurrently.
func (a *Assembler) fetch(ctx context.Context, ids []string) (*fragments, error) {
	var (
		apps     []trademark.Application
		variants []trademark.MarkVariant
		classes  []trademark.Classification
		groups   []trademark.SimilarGroup
		appls    []trademark.Applicant
		holders  []trademark.RightsHolder
		images   map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		apps, err = a.registry.Applications(gctx, ids)
		return wrapFetch(err, "applications")
	})
	g.Go(func() (err error) {
		variants, err = a.registry.MarkVariants(gctx, ids)
		return wrapFetch(err, "mark variants")
	})
	g.Go(func() (err error) {
		classes, err = a.registry.Classifications(gctx, ids)
		return wrapFetch(err, "classifications")
	})
	g.Go(func() (err error) {
		groups, err = a.registry.SimilarGroups(gctx, ids)
		return wrapFetch(err, "similar groups")
	})
	g.Go(func() (err error) {
		appls, err = a.registry.Applicants(gctx, ids)
		return wrapFetch(err, "applicants")
	})
	g.Go(func() (err error) {
		holders, err = a.registry.RightsHolders(gctx, ids)
		return wrapFetch(err, "rights holders")
	})
	g.Go(func() error {
		found, err := a.images.HasImages(gctx, ids)
		if err != nil {
			a.logger.Warn("image presence lookup failed, assuming no images", logging.Err(err))
			found = map[string]bool{}
		}
		images = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &fragments{
		apps:     make(map[string]trademark.Application, len(apps)),
		variants: make(map[string][]trademark.MarkVariant),
		classes:  make(map[string][]trademark.Classification),
		groups:   make(map[string][]trademark.SimilarGroup),
		appls:    make(map[string][]trademark.Applicant),
		holders:  make(map[string][]trademark.RightsHolder),
		images:   images,
	}
	for _, app := range apps {
		if _, dup := f.apps[app.Number]; !dup {
			f.apps[app.Number] = app
		}
	}
	for _, v := range variants {
		f.variants[v.Number] = append(f.variants[v.Number], v)
	}
	for _, c := range classes {
		f.classes[c.Number] = append(f.classes[c.Number], c)
	}
	for _, s := range groups {
		f.groups[s.Number] = append(f.groups[s.Number], s)
	}
	for _, ap := range appls {
		f.appls[ap.Number] = append(f.appls[ap.Number], ap)
	}
	for _, h := range holders {
		f.holders[h.Number] = append(f.holders[h.Number], h)
	}
	return f, nil
}

func wrapFetch(err error, what string) error {
	if err == nil {
		return nil
	}
	return asBackendError(err, "fetch "+what)
}

func (a *Assembler) build(app trademark.Application, f *fragments) trademark.Record {
	id := app.Number
	num := trademark.ApplicationNumber(id)
	rec := trademark.Record{
		ApplicationNumber:           id,
		ApplicationNumberHyphenated: num.Hyphenated(),
		FilingDate:                  app.FilingDate,
		RegistrationDate:            app.RegistrationDate,
		RegistrationNumber:          app.RegistrationNumber,
		RegistrationGazetteDate:     app.RegistrationGazetteDate,
		PublicationDate:             app.PublicationDate,
		ExpiryDate:                  app.ExpiryDate,
		TrialDecisionDate:           app.TrialDecisionDate,
		TrialType:                   app.TrialType,
		HasImage:                    f.images[id],
	}

	variants := firstVariantTexts(f.variants[id])
	rec.MarkText, rec.MarkTextSource = displayMarkText(rec.HasImage, variants)
	rec.Phonetic = variants[trademark.VariantPhonetic]

	if appl, ok := primaryApplicant(f.appls[id]); ok {
		v := resolveApplicant(appl, applicantSources)
		rec.ApplicantCode = appl.Code
		rec.ApplicantName = v.Name
		rec.ApplicantAddress = v.Address
		rec.ApplicantSource = v.Source
		rec.ApplicantConfidence = v.Confidence
	}

	var malformed int
	rec.Classes, malformed = classDisplay(f.classes[id])
	for i := 0; i < malformed; i++ {
		prometheus.RecordMalformedFragment(a.metrics, "classification")
	}
	rec.DesignatedGoods = representativeGoods(f.classes[id])
	rec.SimilarGroupCodes, malformed = similarGroupDisplay(f.groups[id])
	for i := 0; i < malformed; i++ {
		prometheus.RecordMalformedFragment(a.metrics, "similar_group")
	}

	if holder, ok := primaryHolder(f.holders[id]); ok {
		rec.RightsHolderName = holder.Name
		rec.RightsHolderAddress = holder.Address
		if rec.RegistrationNumber == "" {
			rec.RegistrationNumber = holder.RegistrationNumber
		}
	}
	return rec
}

// firstVariantTexts keeps, per kind, the lexically first non-empty text.
func firstVariantTexts(vs []trademark.MarkVariant) map[trademark.VariantKind]string {
	out := make(map[trademark.VariantKind]string, len(vs))
	for _, v := range vs {
		if v.Text == "" {
			continue
		}
		if cur, ok := out[v.Kind]; !ok || v.Text < cur {
			out[v.Kind] = v.Text
		}
	}
	return out
}

// primaryApplicant picks the applicant with the smallest code.
func primaryApplicant(as []trademark.Applicant) (trademark.Applicant, bool) {
	if len(as) == 0 {
		return trademark.Applicant{}, false
	}
	sorted := append([]trademark.Applicant(nil), as...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return sorted[0], true
}

// primaryHolder prefers a holder with a name, then the smallest registration
// number.
func primaryHolder(hs []trademark.RightsHolder) (trademark.RightsHolder, bool) {
	var best trademark.RightsHolder
	found := false
	for _, h := range hs {
		switch {
		case !found:
			best, found = h, true
		case best.Name == "" && h.Name != "":
			best = h
		case (best.Name == "") == (h.Name == "") && h.RegistrationNumber < best.RegistrationNumber:
			best = h
		}
	}
	return best, found
}

//Personal.AI order the ending
