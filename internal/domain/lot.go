package domain

import (
	"strings"
	"time"
)

// LotStatus is the handling state of a lot.
type LotStatus string

const (
	LotStatusOK          LotStatus = "OK"
	LotStatusHold        LotStatus = "HOLD"
	LotStatusInvestigate LotStatus = "INVESTIGATE"
)

// ParseLotStatus normalizes s and reports whether it names a known status.
func ParseLotStatus(s string) (LotStatus, bool) {
	switch status := LotStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case LotStatusOK, LotStatusHold, LotStatusInvestigate:
		return status, true
	default:
		return "", false
	}
}

// Lot is an inventory or batch unit whose movement is tracked.
type Lot struct {
	ID            string
	Status        LotStatus
	Contamination string
	Creator       string
	CreatedAt     time.Time
}

// Movement records a lot leaving one node for another at a point in time.
// Either endpoint may be empty when the source data only knows one side.
type Movement struct {
	ID         string
	LotID      string
	FromNodeID NodeID
	ToNodeID   NodeID
	Timestamp  time.Time
}

// MovementRecord is a stored movement with its endpoint nodes resolved.
// From and To are nil for endpoints the movement was never connected to.
type MovementRecord struct {
	ID        string
	From      *Node
	To        *Node
	Timestamp time.Time
}

// LotDetail is a lot together with its movement history, oldest first.
type LotDetail struct {
	Lot       Lot
	Movements []MovementRecord
}

// LotListResult captures paginated lot list results.
type LotListResult struct {
	Items []Lot
	Total int64
}
