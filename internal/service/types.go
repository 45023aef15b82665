package service

import (
	"time"

	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/render"
)

// NodeInput is the inbound payload for a trace node.
type NodeInput struct {
	ID   domain.NodeID `json:"id"`
	Name string        `json:"name"`
	Type string        `json:"type"`
}

// LotInput is the inbound payload for a lot.
type LotInput struct {
	ID            string     `json:"lotId"`
	Status        string     `json:"status"`
	Contamination string     `json:"contamination,omitempty"`
	Creator       string     `json:"creator,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// MovementInput records a lot moving between two nodes. ID is generated when empty.
type MovementInput struct {
	ID        string        `json:"movementId,omitempty"`
	LotID     string        `json:"lotId"`
	From      domain.NodeID `json:"from"`
	To        domain.NodeID `json:"to"`
	Timestamp time.Time     `json:"timestamp"`
}

// PaginationMeta captures pagination metadata returned to API clients.
type PaginationMeta struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// ListLotsParams defines filters for listing lots.
type ListLotsParams struct {
	Page     int
	PageSize int
	Status   string
}

// LotsPage represents paginated lots with metadata.
type LotsPage struct {
	Items      []domain.Lot
	Pagination PaginationMeta
}

// LotPath is the rendered path of one lot.
type LotPath struct {
	LotID string
	View  render.View
}
