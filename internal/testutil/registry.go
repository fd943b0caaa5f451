package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
)

// MemoryRegistry is an in-memory trademark.Registry that evaluates predicate
// trees directly. It counts every call so tests can assert on registry access.
type MemoryRegistry struct {
	mu sync.RWMutex

	apps     map[string]trademark.Application
	variants []trademark.MarkVariant
	classes  []trademark.Classification
	groups   []trademark.SimilarGroup
	appls    []trademark.Applicant
	holders  []trademark.RightsHolder
	images   map[string]bool

	calls atomic.Int64
	// Err, when set, is returned by every call.
	Err error
	// Hide drops applications from detail lookups only, simulating rows
	// deleted between the count and assembly phases.
	Hide map[string]bool
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{apps: map[string]trademark.Application{}, images: map[string]bool{}}
}

// Fixture describes one application and its fragments.
type Fixture struct {
	Application     trademark.Application
	Variants        map[trademark.VariantKind]string
	Classifications []trademark.Classification
	SimilarGroups   []string
	Applicants      []trademark.Applicant
	RightsHolder    *trademark.RightsHolder
	HasImage        bool
}

// Add stores f, filling in the application number on every fragment.
func (r *MemoryRegistry) Add(f Fixture) *MemoryRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := f.Application.Number
	r.apps[id] = f.Application
	kinds := make([]string, 0, len(f.Variants))
	for k := range f.Variants {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		r.variants = append(r.variants, trademark.MarkVariant{Number: id, Kind: trademark.VariantKind(k), Text: f.Variants[trademark.VariantKind(k)]})
	}
	for _, c := range f.Classifications {
		c.Number = id
		r.classes = append(r.classes, c)
	}
	for _, g := range f.SimilarGroups {
		r.groups = append(r.groups, trademark.SimilarGroup{Number: id, Codes: g})
	}
	for _, a := range f.Applicants {
		a.Number = id
		r.appls = append(r.appls, a)
	}
	if f.RightsHolder != nil {
		h := *f.RightsHolder
		h.Number = id
		r.holders = append(r.holders, h)
	}
	if f.HasImage {
		r.images[id] = true
	}
	return r
}

// Calls returns how many registry methods have been invoked.
func (r *MemoryRegistry) Calls() int64 { return r.calls.Load() }

func (r *MemoryRegistry) enter() error {
	r.calls.Add(1)
	return r.Err
}

// CountCandidates implements trademark.Registry.
func (r *MemoryRegistry) CountCandidates(ctx context.Context, pred query.Predicate) (int64, error) {
	if err := r.enter(); err != nil {
		return 0, err
	}
	return int64(len(r.match(pred))), nil
}

// PageCandidates implements trademark.Registry.
func (r *MemoryRegistry) PageCandidates(ctx context.Context, pred query.Predicate, page trademark.PageRequest) ([]string, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	ids := r.match(pred)
	if page.Order == trademark.OrderDesc {
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	}
	if page.Offset >= len(ids) {
		return []string{}, nil
	}
	ids = ids[page.Offset:]
	if page.Limit < len(ids) {
		ids = ids[:page.Limit]
	}
	return ids, nil
}

// match returns the ascending ids satisfying pred.
func (r *MemoryRegistry) match(pred query.Predicate) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id := range r.apps {
		if query.Evaluate(pred.Root, func(m query.Match) bool { return r.leaf(id, m) }) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *MemoryRegistry) leaf(id string, m query.Match) bool {
	for _, v := range r.values(id, m.Field) {
		v = applyForm(v, m.Form)
		if m.Kind == query.MatchEqual {
			if v == m.Value {
				return true
			}
		} else if strings.Contains(asciiUpper(v), asciiUpper(m.Value)) {
			return true
		}
	}
	return false
}

func applyForm(s string, f query.Form) string {
	switch f {
	case query.FormBasic:
		return normalize.Basic(s)
	case query.FormPronunciation:
		return normalize.Pronunciation(s)
	case query.FormTrademark:
		return normalize.Trademark(s)
	default:
		return s
	}
}

// asciiUpper folds Latin letters only, as the registry's LIKE does.
func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, s)
}

var fieldVariant = map[query.Field]trademark.VariantKind{
	query.FieldStandardCharacter: trademark.VariantStandardCharacter,
	query.FieldDisplay:           trademark.VariantDisplay,
	query.FieldSearchForm:        trademark.VariantSearchForm,
	query.FieldPhonetic:          trademark.VariantPhonetic,
}

func (r *MemoryRegistry) values(id string, f query.Field) []string {
	var out []string
	switch f {
	case query.FieldApplicationNumber:
		out = append(out, id)
	case query.FieldStandardCharacter, query.FieldDisplay, query.FieldSearchForm, query.FieldPhonetic:
		for _, v := range r.variants {
			if v.Number == id && v.Kind == fieldVariant[f] {
				out = append(out, v.Text)
			}
		}
	case query.FieldGoodsClass, query.FieldGoodsRui:
		for _, c := range r.classes {
			if c.Number == id {
				out = append(out, c.ClassNumber)
			}
		}
	case query.FieldDesignatedGoods:
		for _, c := range r.classes {
			if c.Number == id {
				out = append(out, c.DesignatedGoods)
			}
		}
	case query.FieldSimilarGroup:
		for _, g := range r.groups {
			if g.Number == id {
				out = append(out, g.Codes)
			}
		}
	default:
		for _, a := range r.appls {
			if a.Number != id {
				continue
			}
			switch f {
			case query.FieldApplicantMasterName:
				out = append(out, a.MasterName)
			case query.FieldApplicantMasterKana:
				out = append(out, a.MasterKanaName)
			case query.FieldApplicantMasterWestern:
				out = append(out, a.MasterWesternName)
			case query.FieldApplicantLegacyName:
				out = append(out, a.LegacyName)
			case query.FieldApplicantMappingName:
				for _, mp := range a.Mappings {
					out = append(out, mp.Name)
				}
			}
		}
	}
	return out
}

func (r *MemoryRegistry) wanted(ids []string) map[string]bool {
	w := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !r.Hide[id] {
			w[id] = true
		}
	}
	return w
}

// Applications implements trademark.Registry.
func (r *MemoryRegistry) Applications(ctx context.Context, ids []string) ([]trademark.Application, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []trademark.Application
	for id := range r.wanted(ids) {
		if app, ok := r.apps[id]; ok {
			out = append(out, app)
		}
	}
	return out, nil
}

// MarkVariants implements trademark.Registry.
func (r *MemoryRegistry) MarkVariants(ctx context.Context, ids []string) ([]trademark.MarkVariant, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBy(r.variants, r.wanted(ids), func(v trademark.MarkVariant) string { return v.Number }), nil
}

// Classifications implements trademark.Registry.
func (r *MemoryRegistry) Classifications(ctx context.Context, ids []string) ([]trademark.Classification, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBy(r.classes, r.wanted(ids), func(c trademark.Classification) string { return c.Number }), nil
}

// SimilarGroups implements trademark.Registry.
func (r *MemoryRegistry) SimilarGroups(ctx context.Context, ids []string) ([]trademark.SimilarGroup, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBy(r.groups, r.wanted(ids), func(g trademark.SimilarGroup) string { return g.Number }), nil
}

// Applicants implements trademark.Registry.
func (r *MemoryRegistry) Applicants(ctx context.Context, ids []string) ([]trademark.Applicant, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBy(r.appls, r.wanted(ids), func(a trademark.Applicant) string { return a.Number }), nil
}

// RightsHolders implements trademark.Registry.
func (r *MemoryRegistry) RightsHolders(ctx context.Context, ids []string) ([]trademark.RightsHolder, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterBy(r.holders, r.wanted(ids), func(h trademark.RightsHolder) string { return h.Number }), nil
}

// HasImages implements trademark.ImagePresence.
func (r *MemoryRegistry) HasImages(ctx context.Context, ids []string) (map[string]bool, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool)
	for _, id := range ids {
		if r.images[id] {
			out[id] = true
		}
	}
	return out, nil
}

func filterBy[T any](rows []T, wanted map[string]bool, key func(T) string) []T {
	var out []T
	for _, row := range rows {
		if wanted[key(row)] {
			out = append(out, row)
		}
	}
	return out
}

//Personal.AI order the ending
