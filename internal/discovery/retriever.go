package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/pkg/logger"
)

// State is the retrieval strategy used for a request.
type State string

const (
	StateCategoryScoped  State = "category_scoped"
	StateGeneralFiltered State = "general_filtered"
	StateFullScan        State = "full_scan"
)

// Store is the storage contract the retriever reads from.
type Store interface {
	FetchBusinessesByCategory(ctx context.Context, categoryName string) ([]model.Business, error)
	FetchBusinessesFiltered(ctx context.Context, spec FilterSpec, limit int) ([]model.Business, error)
	// FetchAllActiveBusinesses must preload category links so the category predicate can be checked locally.
	FetchAllActiveBusinesses(ctx context.Context) ([]model.Business, error)
}

// Retrieval is the candidate set produced for one request.
type Retrieval struct {
	Businesses []model.Business
	State      State
	Degraded   bool  // true when the full-scan fallback produced the result
	Cause      error // primary failure that triggered the fallback
}

type RetrieverOptions struct {
	Timeout time.Duration // per attempt; zero disables
	Limit   int           // pushed down to the filtered query except for name order; zero means unlimited
}

type Retriever struct {
	store Store
	opts  RetrieverOptions
}

func NewRetriever(store Store, opts RetrieverOptions) *Retriever {
	return &Retriever{store: store, opts: opts}
}

// Retrieve runs the category-scoped or general-filtered strategy and falls back to a single
// full scan if that strategy fails. The returned businesses are all active and satisfy every
// predicate of spec.
func (r *Retriever) Retrieve(ctx context.Context, spec FilterSpec) (*Retrieval, error) {
	state := StateGeneralFiltered
	if spec.HasCategory() {
		state = StateCategoryScoped
	}

	businesses, satisfied, err := r.attempt(ctx, state, spec)
	if err == nil {
		return &Retrieval{
			Businesses: ApplyFilters(businesses, spec, satisfied),
			State:      state,
		}, nil
	}

	primary := &RetrievalError{State: state, Err: err}
	logger.Ctx(ctx).Warn("Primary retrieval failed, falling back to full scan", map[string]interface{}{
		"state":    state,
		"error":    err.Error(),
		"query":    spec.Query,
		"category": spec.Category,
	})

	all, _, err := r.attempt(ctx, StateFullScan, spec)
	if err != nil {
		logger.Ctx(ctx).Error("Full scan fallback failed", err, map[string]interface{}{
			"primary_state": state,
		})
		return &Retrieval{
			Businesses: []model.Business{},
			State:      StateFullScan,
			Degraded:   true,
			Cause:      primary,
		}, &RetrievalError{State: StateFullScan, Err: err}
	}

	return &Retrieval{
		Businesses: ApplyFilters(all, spec, PredicateNone),
		State:      StateFullScan,
		Degraded:   true,
		Cause:      primary,
	}, nil
}

// attempt runs one strategy under the per-attempt budget and reports which predicates the store
// already enforced.
func (r *Retriever) attempt(ctx context.Context, state State, spec FilterSpec) ([]model.Business, Predicate, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var (
		businesses []model.Business
		satisfied  Predicate
		err        error
	)
	switch state {
	case StateCategoryScoped:
		businesses, err = r.store.FetchBusinessesByCategory(ctx, spec.Category)
		satisfied = PredicateCategory
	case StateGeneralFiltered:
		businesses, err = r.store.FetchBusinessesFiltered(ctx, spec, r.pushdownLimit(spec))
		satisfied = PredicateAll
	default:
		businesses, err = r.store.FetchAllActiveBusinesses(ctx)
		satisfied = PredicateNone
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, PredicateNone, err
	}
	if err := validate(businesses); err != nil {
		return nil, PredicateNone, err
	}
	return businesses, satisfied, nil
}

// pushdownLimit is the limit the filtered query may apply. Name order is collated in Go, so the
// store's order can differ and the whole candidate set is needed before truncating.
func (r *Retriever) pushdownLimit(spec FilterSpec) int {
	if spec.Sort == SortName {
		return 0
	}
	return r.opts.Limit
}

func validate(businesses []model.Business) error {
	for i := range businesses {
		if businesses[i].ID == 0 {
			return fmt.Errorf("%w: row %d has no id", ErrMalformedResult, i)
		}
	}
	return nil
}
