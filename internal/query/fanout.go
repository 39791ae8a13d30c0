package query

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

type cellJob struct {
	slot  int
	pos   int
	cell  string
	after string
	limit int
}

type cellResult struct {
	slot int
	page store.Page
	err  error
}

// fetchCells runs jobs on up to workers goroutines and returns the pages in
// job order, whatever order they completed in.
func (o *Orchestrator) fetchCells(ctx context.Context, jobs []cellJob) ([]store.Page, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for i := range jobs {
		jobs[i].slot = i
	}

	in := make(chan cellJob)
	results := make(chan cellResult, len(jobs))

	workerN := min(o.workers, len(jobs))
	var wg sync.WaitGroup
	wg.Add(workerN)
	for range workerN {
		go func() {
			defer wg.Done()
			for j := range in {
				select {
				case <-ctx.Done():
					return
				default:
				}
				page, err := o.fetchCell(ctx, j)
				results <- cellResult{slot: j.slot, page: page, err: err}
				if err != nil {
					cancel()
				}
			}
		}()
	}

send:
	for _, j := range jobs {
		select {
		case in <- j:
		case <-ctx.Done():
			break send
		}
	}
	close(in)
	wg.Wait()
	close(results)

	pages := make([]store.Page, len(jobs))
	done := make([]bool, len(jobs))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		pages[r.slot], done[r.slot] = r.page, true
	}
	if firstErr != nil {
		return nil, firstErr
	}
	for i := range done {
		if !done[i] {
			return nil, ctx.Err()
		}
	}
	return pages, nil
}

func (o *Orchestrator) fetchCell(ctx context.Context, j cellJob) (store.Page, error) {
	ctx, span := tracer.Start(ctx, "query-cell", trace.WithAttributes(
		attribute.String("cell", j.cell),
		attribute.Int("position", j.pos),
	))
	defer span.End()

	start, end := keys.CellRange(j.cell)
	page, err := o.st.Query(ctx, o.index, store.Range{Start: start, End: end}, j.limit, j.after)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return store.Page{}, fmt.Errorf("cell %d (%s): %w", j.pos, j.cell, err)
	}
	span.SetAttributes(attribute.Int("items", len(page.Items)))
	return page, nil
}
