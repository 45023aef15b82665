package domain

import (
	"encoding/json"
	"testing"
)

func TestTraceDecode_AcceptsNumericIDs(t *testing.T) {
	payload := `{
		"lot_id": "LOT-2024-0001",
		"status": "HOLD",
		"nodes": [{"id": 7, "name": "Pengumpul Jaya", "type": "COLLECTOR"}, {"id": "8", "name": "PT Ocean Fresh", "type": "PROCESSOR"}],
		"links": [{"source": 7, "target": "8", "timestamp": null}]
	}`

	var trace Trace
	if err := json.Unmarshal([]byte(payload), &trace); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if trace.Nodes[0].ID != "7" || trace.Nodes[1].ID != "8" {
		t.Fatalf("unexpected node ids: %q %q", trace.Nodes[0].ID, trace.Nodes[1].ID)
	}
	if trace.Links[0].Source != "7" || trace.Links[0].Timestamp != "" {
		t.Fatalf("unexpected link: %+v", trace.Links[0])
	}
	if trace.Status != LotStatusHold {
		t.Fatalf("expected HOLD, got %s", trace.Status)
	}
}

func TestTraceDecode_MissingCollections(t *testing.T) {
	var trace Trace
	if err := json.Unmarshal([]byte(`{"lot_id":"LOT-1"}`), &trace); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if len(trace.Nodes) != 0 || len(trace.Links) != 0 {
		t.Fatalf("expected empty collections, got %+v", trace)
	}
}

func TestNodeID_RejectsObjects(t *testing.T) {
	var id NodeID
	if err := json.Unmarshal([]byte(`{"id":1}`), &id); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestParseLotStatus(t *testing.T) {
	if s, ok := ParseLotStatus(" investigate "); !ok || s != LotStatusInvestigate {
		t.Fatalf("expected INVESTIGATE, got %q (%v)", s, ok)
	}
	if _, ok := ParseLotStatus("lost"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
