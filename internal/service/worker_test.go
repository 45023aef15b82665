package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vanshika/lottrace/internal/domain"
)

func TestBulkIngestor_IngestsEverything(t *testing.T) {
	repo := &stubRepository{}
	ingestor := NewBulkIngestor(NewTraceService(repo, Options{}), 3)
	ctx := context.Background()

	var nodes []NodeInput
	var movements []MovementInput
	for i := 0; i < 25; i++ {
		nodes = append(nodes, NodeInput{ID: domain.NodeID(fmt.Sprintf("n-%d", i)), Name: fmt.Sprintf("Node %d", i), Type: "COLLECTOR"})
		movements = append(movements, MovementInput{LotID: "LOT-1", From: domain.NodeID(fmt.Sprintf("n-%d", i)), To: domain.NodeID(fmt.Sprintf("n-%d", i+1)), Timestamp: time.Now()})
	}

	if err := ingestor.IngestNodes(ctx, nodes); err != nil {
		t.Fatalf("ingest nodes: %v", err)
	}
	if err := ingestor.IngestLots(ctx, []LotInput{{ID: "LOT-1"}}); err != nil {
		t.Fatalf("ingest lots: %v", err)
	}
	if err := ingestor.IngestMovements(ctx, movements); err != nil {
		t.Fatalf("ingest movements: %v", err)
	}
	if len(repo.nodes) != 25 || len(repo.lots) != 1 || len(repo.movements) != 25 {
		t.Fatalf("unexpected counts: nodes=%d lots=%d movements=%d", len(repo.nodes), len(repo.lots), len(repo.movements))
	}
}

func TestBulkIngestor_AggregatesErrors(t *testing.T) {
	boom := errors.New("lot missing")
	repo := &stubRepository{movementErr: boom}
	ingestor := NewBulkIngestor(NewTraceService(repo, Options{}), 2)

	movements := []MovementInput{
		{LotID: "LOT-1", From: "a", To: "b", Timestamp: time.Now()},
		{LotID: "LOT-1", From: "b", To: "c", Timestamp: time.Now()},
	}
	err := ingestor.IngestMovements(context.Background(), movements)

	var taskErr *TaskError
	if !errors.As(err, &taskErr) || len(taskErr.Errors) != 2 {
		t.Fatalf("expected TaskError with 2 errors, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestBulkIngestor_StopsOnCancel(t *testing.T) {
	repo := &stubRepository{}
	ingestor := NewBulkIngestor(NewTraceService(repo, Options{}), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ingestor.IngestLots(ctx, []LotInput{{ID: "LOT-1"}, {ID: "LOT-2"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
