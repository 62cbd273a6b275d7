package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vanshika/dronepath/internal/domain"
)

// TaskError accumulates multiple errors produced during a batch.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// PairResult is the outcome of one pair in a batch. Error is empty on success.
type PairResult struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Route domain.Route `json:"route"`
	Error string       `json:"error,omitempty"`
}

// BatchRouter computes many routes concurrently against a single snapshot.
type BatchRouter struct {
	service *RouteService
	workers int
}

// NewBatchRouter creates a new BatchRouter instance with the provided concurrency.
func NewBatchRouter(service *RouteService, workers int) *BatchRouter {
	if workers <= 0 {
		workers = 4
	}
	return &BatchRouter{
		service: service,
		workers: workers,
	}
}

// RouteAll loads one snapshot and routes every pair over it. Results keep the
// order of pairs. Per-pair failures are recorded on the result and returned
// together as a *TaskError; a snapshot failure aborts the batch.
func (br *BatchRouter) RouteAll(ctx context.Context, pairs []domain.RoutePair) ([]PairResult, error) {
	results := make([]PairResult, len(pairs))
	if len(pairs) == 0 {
		return results, nil
	}

	g, err := br.service.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	err = br.run(ctx, len(pairs), func(idx int) error {
		p := pairs[idx]
		results[idx] = PairResult{Start: p.Start, End: p.End}
		route, err := br.service.route(ctx, g, p.Start, p.End)
		if err != nil {
			results[idx].Route = domain.Unreachable
			results[idx].Error = err.Error()
			return fmt.Errorf("pair %d (%s -> %s): %w", idx, p.Start, p.End, err)
		}
		results[idx].Route = route
		return nil
	})
	return results, err
}

func (br *BatchRouter) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < br.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
