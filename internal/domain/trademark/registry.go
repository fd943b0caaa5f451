package trademark

import (
	"context"
	"strings"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// Order is the application-number ordering of a candidate page.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts "asc" or "desc" in any case; empty yields def.
func ParseOrder(s string, def Order) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	}
	return "", errors.InvalidParam("order must be asc or desc")
}

// PageRequest selects a window of distinct candidate identifiers.
type PageRequest struct {
	Limit  int
	Offset int
	Order  Order
}

// Registry is read-only access to the trademark registry. Batch lookups take
// the identifiers of one page and return fragments in any order; identifiers
// with no rows are simply absent from the result. Implementations report
// outages as BackendUnavailable errors.
type Registry interface {
	// CountCandidates returns the number of distinct applications matching pred.
	CountCandidates(ctx context.Context, pred query.Predicate) (int64, error)
	// PageCandidates returns distinct matching identifiers ordered by number.
	PageCandidates(ctx context.Context, pred query.Predicate, page PageRequest) ([]string, error)

	Applications(ctx context.Context, ids []string) ([]Application, error)
	MarkVariants(ctx context.Context, ids []string) ([]MarkVariant, error)
	Classifications(ctx context.Context, ids []string) ([]Classification, error)
	SimilarGroups(ctx context.Context, ids []string) ([]SimilarGroup, error)
	Applicants(ctx context.Context, ids []string) ([]Applicant, error)
	RightsHolders(ctx context.Context, ids []string) ([]RightsHolder, error)
}

// ImagePresence reports which applications have a rendered mark image.
// Identifiers missing from the returned map have no image.
type ImagePresence interface {
	HasImages(ctx context.Context, ids []string) (map[string]bool, error)
}

// NoImages is an ImagePresence that never finds an image.
type NoImages struct{}

// HasImages implements ImagePresence.
func (NoImages) HasImages(context.Context, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

//Personal.AI order the ending
