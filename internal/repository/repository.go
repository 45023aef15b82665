package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/graph"
)

// ErrNotFound is returned when a lot does not exist.
var ErrNotFound = errors.New("not found")

// ListLotsOptions defines filters and pagination for lot listing.
type ListLotsOptions struct {
	Offset int
	Limit  int
	Status domain.LotStatus
}

// Repository encapsulates graph persistence operations for lots.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertNode creates or refreshes a trace node.
func (r *Repository) UpsertNode(ctx context.Context, node domain.Node) error {
	if node.ID == "" {
		return errors.New("node id is required")
	}
	params := map[string]any{
		"nodeId": string(node.ID),
		"name":   node.Name,
		"type":   node.Type,
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertNodeCypher, params); err != nil {
		return fmt.Errorf("upsert node %s: %w", node.ID, err)
	}
	return nil
}

// UpsertLot creates or refreshes a lot. CreatedAt is only written on creation.
func (r *Repository) UpsertLot(ctx context.Context, lot domain.Lot) error {
	if lot.ID == "" {
		return errors.New("lot id is required")
	}
	params := map[string]any{
		"lotId":         lot.ID,
		"status":        string(lot.Status),
		"contamination": lot.Contamination,
		"creator":       lot.Creator,
		"createdAt":     formatTime(lot.CreatedAt),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertLotCypher, params); err != nil {
		return fmt.Errorf("upsert lot %s: %w", lot.ID, err)
	}
	return nil
}

// RecordMovement attaches a movement to its lot and endpoint nodes. Endpoints
// that are empty or unknown are left unconnected.
func (r *Repository) RecordMovement(ctx context.Context, mv domain.Movement) error {
	if mv.ID == "" || mv.LotID == "" {
		return errors.New("movement id and lot id are required")
	}
	params := map[string]any{
		"movementId": mv.ID,
		"lotId":      mv.LotID,
		"fromId":     string(mv.FromNodeID),
		"toId":       string(mv.ToNodeID),
		"timestamp":  formatTime(mv.Timestamp),
	}
	res, err := r.client.ExecuteWrite(ctx, recordMovementCypher, params)
	if err != nil {
		return fmt.Errorf("record movement %s for lot %s: %w", mv.ID, mv.LotID, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("lot %s: %w", mv.LotID, ErrNotFound)
	}
	return nil
}

// GetLot returns a single lot.
func (r *Repository) GetLot(ctx context.Context, lotID string) (domain.Lot, error) {
	res, err := r.client.ExecuteRead(ctx, getLotCypher, map[string]any{"lotId": lotID})
	if err != nil {
		return domain.Lot{}, fmt.Errorf("get lot %s: %w", lotID, err)
	}
	rec, ok := res.First()
	if !ok {
		return domain.Lot{}, fmt.Errorf("lot %s: %w", lotID, ErrNotFound)
	}
	return lotFromRecord(rec), nil
}

// LotMovements returns the movements of a lot ordered by timestamp. A lot
// without movements yields an empty slice; the caller checks existence.
func (r *Repository) LotMovements(ctx context.Context, lotID string) ([]domain.MovementRecord, error) {
	res, err := r.client.ExecuteRead(ctx, lotMovementsCypher, map[string]any{"lotId": lotID})
	if err != nil {
		return nil, fmt.Errorf("lot movements for %s: %w", lotID, err)
	}
	movements := make([]domain.MovementRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		mv := domain.MovementRecord{
			ID:   toString(rec["movementId"]),
			From: nodeFromRecord(rec, "source"),
			To:   nodeFromRecord(rec, "target"),
		}
		if ts := toTimePtr(rec["timestamp"]); ts != nil {
			mv.Timestamp = *ts
		}
		movements = append(movements, mv)
	}
	return movements, nil
}

// LotsByNode returns the ids of lots with a movement touching the node.
func (r *Repository) LotsByNode(ctx context.Context, nodeID domain.NodeID) ([]string, error) {
	res, err := r.client.ExecuteRead(ctx, lotsByNodeCypher, map[string]any{"nodeId": string(nodeID)})
	if err != nil {
		return nil, fmt.Errorf("lots by node %s: %w", nodeID, err)
	}
	ids := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		if id := toString(rec["lotId"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ListLots returns lots newest first.
func (r *Repository) ListLots(ctx context.Context, opts ListLotsOptions) (domain.LotListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	params := map[string]any{
		"status": string(opts.Status),
		"skip":   offset,
		"limit":  limit,
	}

	res, err := r.client.ExecuteRead(ctx, listLotsCypher, params)
	if err != nil {
		return domain.LotListResult{}, fmt.Errorf("list lots query: %w", err)
	}
	lots := make([]domain.Lot, 0, len(res.Records))
	for _, record := range res.Records {
		lots = append(lots, lotFromRecord(record))
	}

	countRes, err := r.client.ExecuteRead(ctx, countLotsCypher, params)
	if err != nil {
		return domain.LotListResult{}, fmt.Errorf("count lots query: %w", err)
	}
	var total int64
	if rec, ok := countRes.First(); ok {
		total = toInt64(rec["total"])
	}

	return domain.LotListResult{Items: lots, Total: total}, nil
}

// FetchTrace assembles the node/link view of a lot's movements. Nodes are
// listed in order of first appearance; a link is emitted only for movements
// with both endpoints.
func (r *Repository) FetchTrace(ctx context.Context, lotID string) (domain.Trace, error) {
	res, err := r.client.ExecuteRead(ctx, lotTraceCypher, map[string]any{"lotId": lotID})
	if err != nil {
		return domain.Trace{}, fmt.Errorf("fetch trace for lot %s: %w", lotID, err)
	}
	first, ok := res.First()
	if !ok {
		return domain.Trace{}, fmt.Errorf("lot %s: %w", lotID, ErrNotFound)
	}

	trace := domain.Trace{
		LotID:  toString(first["lotId"]),
		Status: domain.LotStatus(toString(first["status"])),
		Nodes:  []domain.Node{},
		Links:  []domain.Link{},
	}

	index := make(map[domain.NodeID]int)
	collect := func(rec graph.Record, prefix string) (domain.NodeID, bool) {
		node := nodeFromRecord(rec, prefix)
		if node == nil {
			return "", false
		}
		if i, ok := index[node.ID]; ok {
			trace.Nodes[i] = *node
		} else {
			index[node.ID] = len(trace.Nodes)
			trace.Nodes = append(trace.Nodes, *node)
		}
		return node.ID, true
	}

	for _, rec := range res.Records {
		src, hasSrc := collect(rec, "source")
		dst, hasDst := collect(rec, "target")
		if hasSrc && hasDst {
			trace.Links = append(trace.Links, domain.Link{
				Source:    src,
				Target:    dst,
				Timestamp: toString(rec["timestamp"]),
			})
		}
	}
	return trace, nil
}

// SuspectNodes counts how often each node appears in movements of lots with
// one of the given statuses. HOLD and INVESTIGATE are used when none are given.
func (r *Repository) SuspectNodes(ctx context.Context, statuses []domain.LotStatus) ([]domain.SuspectNode, error) {
	if len(statuses) == 0 {
		statuses = []domain.LotStatus{domain.LotStatusHold, domain.LotStatusInvestigate}
	}
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	res, err := r.client.ExecuteRead(ctx, suspectNodesCypher, map[string]any{"statuses": values})
	if err != nil {
		return nil, fmt.Errorf("suspect nodes query: %w", err)
	}

	suspects := make([]domain.SuspectNode, 0, len(res.Records))
	for _, rec := range res.Records {
		lotIDs := toStringSlice(rec["lotIds"])
		slices.Sort(lotIDs)
		suspects = append(suspects, domain.SuspectNode{
			Node: domain.Node{
				ID:   domain.NodeID(toString(rec["nodeId"])),
				Name: toString(rec["name"]),
				Type: toString(rec["type"]),
			},
			Occurrences: toInt64(rec["occurrences"]),
			LotIDs:      slices.Compact(lotIDs),
		})
	}
	sort.SliceStable(suspects, func(i, j int) bool {
		return suspects[i].Occurrences > suspects[j].Occurrences
	})
	return suspects, nil
}

func lotFromRecord(rec graph.Record) domain.Lot {
	lot := domain.Lot{
		ID:            toString(rec["lotId"]),
		Status:        domain.LotStatus(toString(rec["status"])),
		Contamination: toString(rec["contamination"]),
		Creator:       toString(rec["creator"]),
	}
	if created := toTimePtr(rec["createdAt"]); created != nil {
		lot.CreatedAt = *created
	}
	return lot
}

func nodeFromRecord(rec graph.Record, prefix string) *domain.Node {
	id := domain.NodeID(toString(rec[prefix+"Id"]))
	if id == "" {
		return nil
	}
	return &domain.Node{ID: id, Name: toString(rec[prefix+"Name"]), Type: toString(rec[prefix+"Type"])}
}

// timestampLayout is fixed width so stored values sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func toString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return &ts
		}
	}
	return nil
}
