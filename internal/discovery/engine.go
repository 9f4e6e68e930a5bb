package discovery

import (
	"context"

	"github.com/ikkim/bizdir-backend/internal/app/model"
)

// Result is a ranked search response.
type Result struct {
	Businesses []model.Business
	Count      int
	Spec       FilterSpec
	State      State
	Degraded   bool
}

// Engine runs normalize, retrieve, filter and sort for one request.
type Engine struct {
	retriever *Retriever
	sorter    *Sorter
	limit     int
}

type EngineOptions struct {
	Retriever RetrieverOptions
	Locale    string
}

func NewEngine(store Store, opts EngineOptions) *Engine {
	return &Engine{
		retriever: NewRetriever(store, opts.Retriever),
		sorter:    NewSorter(opts.Locale),
		limit:     opts.Retriever.Limit,
	}
}

// Search never fails on bad input. It returns an error only when the fallback scan also failed,
// in which case the result is empty.
func (e *Engine) Search(ctx context.Context, raw RawParams) (*Result, error) {
	return e.SearchSpec(ctx, Normalize(raw))
}

// SearchSpec is Search for an already normalized request.
func (e *Engine) SearchSpec(ctx context.Context, spec FilterSpec) (*Result, error) {
	retrieval, err := e.retriever.Retrieve(ctx, spec)
	result := &Result{
		Businesses: retrieval.Businesses,
		Spec:       spec,
		State:      retrieval.State,
		Degraded:   retrieval.Degraded,
	}
	if err != nil {
		result.Businesses = []model.Business{}
		return result, err
	}

	e.sorter.Sort(result.Businesses, spec.Sort)
	if e.limit > 0 && len(result.Businesses) > e.limit {
		result.Businesses = result.Businesses[:e.limit]
	}
	result.Count = len(result.Businesses)
	return result, nil
}
