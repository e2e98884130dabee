package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is used when a batch is run without an explicit limit
const DefaultBatchConcurrency = 4

// Loader produces the document for one batch item
type Loader func(ctx context.Context) (RawDocument, error)

// BatchItem is one named unit of work in a batch
type BatchItem struct {
	Name string
	Load Loader
}

// BatchResult is the outcome for one batch item. Exactly one of Result and Err is meaningful.
type BatchResult struct {
	Name   string  `json:"name"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// AnalyzeBatch loads and analyzes items with at most concurrency workers in flight.
// Results are returned in input order. A failing item is recorded in its BatchResult and
// does not stop the rest of the batch; only context cancellation aborts early.
func (e *Engine) AnalyzeBatch(ctx context.Context, items []BatchItem, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(items))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range items {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = e.runItem(gCtx, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) runItem(ctx context.Context, item BatchItem) BatchResult {
	out := BatchResult{Name: item.Name}
	doc, err := item.Load(ctx)
	if err != nil {
		out.Err = err
		out.Error = err.Error()
		return out
	}
	result := e.Analyze(doc)
	out.Result = &result
	return out
}
