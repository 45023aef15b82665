package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// TaskError accumulates the per-item errors of a bulk ingestion.
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
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString(" ")
		b.WriteString(err.Error())
		b.WriteString(";")
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
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

// BulkIngestor loads node, lot and movement datasets using a worker pool.
type BulkIngestor struct {
	service *TraceService
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(service *TraceService, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		service: service,
		workers: workers,
	}
}

// IngestNodes upserts the provided nodes concurrently.
func (bi *BulkIngestor) IngestNodes(ctx context.Context, nodes []NodeInput) error {
	return bi.run(ctx, len(nodes), func(idx int) error {
		if err := bi.service.UpsertNode(ctx, nodes[idx]); err != nil {
			return fmt.Errorf("node %s: %w", nodes[idx].ID, err)
		}
		return nil
	})
}

// IngestLots upserts the provided lots concurrently.
func (bi *BulkIngestor) IngestLots(ctx context.Context, lots []LotInput) error {
	return bi.run(ctx, len(lots), func(idx int) error {
		if _, err := bi.service.UpsertLot(ctx, lots[idx]); err != nil {
			return fmt.Errorf("lot %s: %w", lots[idx].ID, err)
		}
		return nil
	})
}

// IngestMovements records movements concurrently. Lots and nodes must be
// ingested first; movements referencing unknown lots fail individually.
func (bi *BulkIngestor) IngestMovements(ctx context.Context, movements []MovementInput) error {
	return bi.run(ctx, len(movements), func(idx int) error {
		if _, err := bi.service.RecordMovement(ctx, movements[idx]); err != nil {
			return fmt.Errorf("movement %d of lot %s: %w", idx, movements[idx].LotID, err)
		}
		return nil
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
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

	for i := 0; i < bi.workers; i++ {
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
