package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/lottrace/internal/cache"
	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/metrics"
	"github.com/vanshika/lottrace/internal/repository"
	"github.com/vanshika/lottrace/internal/viewer"
)

// ErrInvalidInput marks validation failures of inbound payloads.
var ErrInvalidInput = errors.New("invalid input")

// TraceRepository is the storage contract required by the trace service.
type TraceRepository interface {
	UpsertNode(ctx context.Context, node domain.Node) error
	UpsertLot(ctx context.Context, lot domain.Lot) error
	RecordMovement(ctx context.Context, mv domain.Movement) error
	GetLot(ctx context.Context, lotID string) (domain.Lot, error)
	LotMovements(ctx context.Context, lotID string) ([]domain.MovementRecord, error)
	LotsByNode(ctx context.Context, nodeID domain.NodeID) ([]string, error)
	ListLots(ctx context.Context, opts repository.ListLotsOptions) (domain.LotListResult, error)
	FetchTrace(ctx context.Context, lotID string) (domain.Trace, error)
	SuspectNodes(ctx context.Context, statuses []domain.LotStatus) ([]domain.SuspectNode, error)
}

// TraceService validates lot tracker writes and serves traces and paths.
type TraceService struct {
	repo     TraceRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	nowFn    func() time.Time
	idFn     func() string

	// generations counts invalidations per lot so a trace read before a
	// write is never left in the cache after it.
	genMu       sync.Mutex
	generations map[string]uint64
}

// Options tunes a TraceService. Zero values disable caching and metrics.
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// NewTraceService constructs a TraceService.
func NewTraceService(repo TraceRepository, opts Options) *TraceService {
	c := opts.Cache
	if c == nil {
		c = cache.Null{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TraceService{
		repo:        repo,
		cache:       c,
		cacheTTL:    opts.CacheTTL,
		logger:      logger,
		metrics:     opts.Metrics,
		nowFn:       time.Now,
		idFn:        uuid.NewString,
		generations: make(map[string]uint64),
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *TraceService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// UpsertNode validates and stores a trace node, then drops the cached traces
// of every lot that passed through it.
func (s *TraceService) UpsertNode(ctx context.Context, input NodeInput) error {
	node := domain.Node{
		ID:   normalizeNodeID(input.ID),
		Name: normalizeName(input.Name),
		Type: normalizeNodeType(input.Type),
	}
	if node.ID == "" {
		return fmt.Errorf("%w: node id is required", ErrInvalidInput)
	}
	if node.Name == "" {
		return fmt.Errorf("%w: node name is required", ErrInvalidInput)
	}
	if err := s.repo.UpsertNode(ctx, node); err != nil {
		return err
	}

	lotIDs, err := s.repo.LotsByNode(ctx, node.ID)
	if err != nil {
		s.logger.Warn("lookup of lots for node failed", "nodeId", node.ID, "error", err)
		return nil
	}
	for _, lotID := range lotIDs {
		s.invalidate(ctx, lotID)
	}
	return nil
}

// UpsertLot validates and stores a lot, returning its normalized id. An empty
// status defaults to OK.
func (s *TraceService) UpsertLot(ctx context.Context, input LotInput) (string, error) {
	lot := domain.Lot{
		ID:            normalizeLotID(input.ID),
		Status:        domain.LotStatusOK,
		Contamination: normalizeName(input.Contamination),
		Creator:       normalizeName(input.Creator),
		CreatedAt:     s.nowFn().UTC(),
	}
	if lot.ID == "" {
		return "", fmt.Errorf("%w: lot id is required", ErrInvalidInput)
	}
	if input.Status != "" {
		status, ok := domain.ParseLotStatus(input.Status)
		if !ok {
			return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
		}
		lot.Status = status
	}
	if input.CreatedAt != nil {
		lot.CreatedAt = input.CreatedAt.UTC()
	}

	if err := s.repo.UpsertLot(ctx, lot); err != nil {
		return "", err
	}
	s.invalidate(ctx, lot.ID)
	return lot.ID, nil
}

// RecordMovement validates and stores a movement, returning its id.
func (s *TraceService) RecordMovement(ctx context.Context, input MovementInput) (string, error) {
	mv := domain.Movement{
		ID:         input.ID,
		LotID:      normalizeLotID(input.LotID),
		FromNodeID: normalizeNodeID(input.From),
		ToNodeID:   normalizeNodeID(input.To),
		Timestamp:  input.Timestamp.UTC(),
	}
	if mv.LotID == "" {
		return "", fmt.Errorf("%w: lot id is required", ErrInvalidInput)
	}
	if mv.FromNodeID == "" && mv.ToNodeID == "" {
		return "", fmt.Errorf("%w: at least one of from and to is required", ErrInvalidInput)
	}
	if input.Timestamp.IsZero() {
		return "", fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}
	if mv.ID == "" {
		mv.ID = s.idFn()
	}

	if err := s.repo.RecordMovement(ctx, mv); err != nil {
		return "", err
	}
	s.invalidate(ctx, mv.LotID)
	return mv.ID, nil
}

// GetLot returns one lot.
func (s *TraceService) GetLot(ctx context.Context, lotID string) (domain.Lot, error) {
	return s.repo.GetLot(ctx, normalizeLotID(lotID))
}

// GetLotDetail returns a lot with its movement history, oldest first.
func (s *TraceService) GetLotDetail(ctx context.Context, lotID string) (domain.LotDetail, error) {
	lot, err := s.GetLot(ctx, lotID)
	if err != nil {
		return domain.LotDetail{}, err
	}
	movements, err := s.repo.LotMovements(ctx, lot.ID)
	if err != nil {
		return domain.LotDetail{}, err
	}
	return domain.LotDetail{Lot: lot, Movements: movements}, nil
}

// ListLots retrieves paginated lots, optionally filtered by status.
func (s *TraceService) ListLots(ctx context.Context, params ListLotsParams) (LotsPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)

	var status domain.LotStatus
	if params.Status != "" {
		parsed, ok := domain.ParseLotStatus(params.Status)
		if !ok {
			return LotsPage{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, params.Status)
		}
		status = parsed
	}

	result, err := s.repo.ListLots(ctx, repository.ListLotsOptions{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
		Status: status,
	})
	if err != nil {
		return LotsPage{}, err
	}
	return LotsPage{
		Items:      result.Items,
		Pagination: buildPaginationMeta(page, pageSize, result.Total),
	}, nil
}

// GetTrace returns the node/link trace of a lot, served from cache when possible.
func (s *TraceService) GetTrace(ctx context.Context, lotID string) (domain.Trace, error) {
	lotID = normalizeLotID(lotID)
	key := cache.TraceKey(lotID)

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("trace cache lookup failed", "lotId", lotID, "error", err)
	}
	if ok {
		var trace domain.Trace
		if err := json.Unmarshal(data, &trace); err == nil {
			s.metrics.CacheHit()
			return trace, nil
		}
		s.logger.Warn("discarding undecodable cached trace", "lotId", lotID)
	}
	s.metrics.CacheMiss()

	gen := s.generation(lotID)
	trace, err := s.repo.FetchTrace(ctx, lotID)
	if err != nil {
		return domain.Trace{}, err
	}
	s.storeTrace(ctx, lotID, gen, trace)
	return trace, nil
}

// storeTrace caches trace unless the lot was invalidated after gen was read.
// The second check covers an invalidation racing with Set.
func (s *TraceService) storeTrace(ctx context.Context, lotID string, gen uint64, trace domain.Trace) {
	if s.generation(lotID) != gen {
		return
	}
	encoded, err := json.Marshal(trace)
	if err != nil {
		return
	}
	key := cache.TraceKey(lotID)
	if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
		s.logger.Warn("trace cache store failed", "lotId", lotID, "error", err)
		return
	}
	if s.generation(lotID) != gen {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("trace cache invalidation failed", "lotId", lotID, "error", err)
		}
	}
}

// GetPath returns the rendered chronological path of a lot.
func (s *TraceService) GetPath(ctx context.Context, lotID string) (LotPath, error) {
	trace, err := s.GetTrace(ctx, lotID)
	if err != nil {
		return LotPath{}, err
	}
	view := viewer.FromTrace(trace)
	s.metrics.ObserveView(string(view.State))
	return LotPath{LotID: trace.LotID, View: view}, nil
}

// SuspectNodes ranks nodes by how often they appear in problematic lots.
func (s *TraceService) SuspectNodes(ctx context.Context, statuses []string) ([]domain.SuspectNode, error) {
	parsed := make([]domain.LotStatus, 0, len(statuses))
	for _, raw := range statuses {
		status, ok := domain.ParseLotStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
		}
		parsed = append(parsed, status)
	}
	return s.repo.SuspectNodes(ctx, parsed)
}

func (s *TraceService) generation(lotID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[lotID]
}

// invalidate bumps the lot generation before deleting so concurrent readers
// see the change by the time the key is gone.
func (s *TraceService) invalidate(ctx context.Context, lotID string) {
	s.genMu.Lock()
	s.generations[lotID]++
	s.genMu.Unlock()

	if err := s.cache.Delete(ctx, cache.TraceKey(lotID)); err != nil {
		s.logger.Warn("trace cache invalidation failed", "lotId", lotID, "error", err)
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func buildPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
		if total > 0 && totalPages == 0 {
			totalPages = 1
		}
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
