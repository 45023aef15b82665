package lotpath

import (
	"reflect"
	"testing"

	"github.com/vanshika/lottrace/internal/domain"
)

var (
	warehouse = domain.Node{ID: "1", Name: "Warehouse", Type: "loc"}
	truck     = domain.Node{ID: "2", Name: "Truck", Type: "vehicle"}
	store     = domain.Node{ID: "3", Name: "Store", Type: "loc"}
)

func names(path []domain.Node) []string {
	out := make([]string, 0, len(path))
	for _, n := range path {
		out = append(out, n.Name)
	}
	return out
}

func TestOrder(t *testing.T) {
	nodes := []domain.Node{warehouse, truck, store}

	tests := []struct {
		name  string
		nodes []domain.Node
		links []domain.Link
		want  []string
	}{
		{
			name:  "walks links by timestamp rather than input order",
			nodes: nodes,
			links: []domain.Link{
				{Source: "1", Target: "2", Timestamp: "2024-01-02"},
				{Source: "2", Target: "3", Timestamp: "2024-01-01"},
			},
			want: []string{"Truck", "Store", "Truck"},
		},
		{
			name:  "no links yields the first supplied node",
			nodes: []domain.Node{store, warehouse},
			want:  []string{"Store"},
		},
		{
			name:  "unknown first source starts the path at the first target",
			nodes: nodes,
			links: []domain.Link{
				{Source: "99", Target: "2", Timestamp: "2024-01-01"},
				{Source: "2", Target: "3", Timestamp: "2024-01-02"},
			},
			want: []string{"Truck", "Store"},
		},
		{
			name:  "unknown targets are skipped",
			nodes: nodes,
			links: []domain.Link{
				{Source: "1", Target: "42", Timestamp: "2024-01-01"},
				{Source: "42", Target: "3", Timestamp: "2024-01-02"},
			},
			want: []string{"Warehouse", "Store"},
		},
		{
			name:  "consecutive repeats collapse but revisits are kept",
			nodes: nodes,
			links: []domain.Link{
				{Source: "1", Target: "2", Timestamp: "2024-01-01"},
				{Source: "1", Target: "2", Timestamp: "2024-01-02"},
				{Source: "2", Target: "3", Timestamp: "2024-01-03"},
				{Source: "3", Target: "2", Timestamp: "2024-01-04"},
			},
			want: []string{"Warehouse", "Truck", "Store", "Truck"},
		},
		{
			name:  "start node is not repeated by a self link",
			nodes: nodes,
			links: []domain.Link{
				{Source: "1", Target: "1", Timestamp: "2024-01-01"},
				{Source: "1", Target: "3", Timestamp: "2024-01-02"},
			},
			want: []string{"Warehouse", "Store"},
		},
		{
			name:  "missing timestamps sort first",
			nodes: nodes,
			links: []domain.Link{
				{Source: "2", Target: "3", Timestamp: "2024-01-01"},
				{Source: "1", Target: "2"},
			},
			want: []string{"Warehouse", "Truck", "Store"},
		},
		{
			name:  "nothing resolves",
			nodes: nodes,
			links: []domain.Link{
				{Source: "8", Target: "9", Timestamp: "2024-01-01"},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Order(tt.nodes, tt.links))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrder_StableForEqualTimestamps(t *testing.T) {
	nodes := []domain.Node{warehouse, truck, store}
	links := []domain.Link{
		{Source: "1", Target: "3", Timestamp: "2024-01-01T10:00:00Z"},
		{Source: "3", Target: "2", Timestamp: "2024-01-01T10:00:00Z"},
		{Source: "2", Target: "1", Timestamp: "2024-01-01T10:00:00Z"},
	}

	got := names(Order(nodes, links))
	want := []string{"Warehouse", "Store", "Truck", "Warehouse"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrder_LastDuplicateNodeWins(t *testing.T) {
	renamed := domain.Node{ID: "2", Name: "Reefer Truck", Type: "vehicle"}
	nodes := []domain.Node{warehouse, truck, renamed}
	links := []domain.Link{{Source: "1", Target: "2", Timestamp: "2024-01-01"}}

	got := names(Order(nodes, links))
	want := []string{"Warehouse", "Reefer Truck"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrder_IsPureAndRepeatable(t *testing.T) {
	nodes := []domain.Node{warehouse, truck, store}
	links := []domain.Link{
		{Source: "2", Target: "3", Timestamp: "2024-01-03"},
		{Source: "1", Target: "2", Timestamp: "2024-01-01"},
	}
	original := append([]domain.Link(nil), links...)

	first := Order(nodes, links)
	second := Order(nodes, links)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output, got %v and %v", first, second)
	}
	if !reflect.DeepEqual(links, original) {
		t.Fatalf("links were reordered in place: %v", links)
	}
}

func TestOrder_EmptyNodes(t *testing.T) {
	if got := Order(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty path, got %v", got)
	}
}
