package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/render"
	"github.com/vanshika/lottrace/internal/repository"
	"github.com/vanshika/lottrace/internal/service"
)

const qrSize = 256

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.TraceService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.TraceService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) listLots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.service.ListLots(r.Context(), service.ListLotsParams{
		Page:     parseInt(query.Get("page"), 1),
		PageSize: parseInt(query.Get("pageSize"), 50),
		Status:   query.Get("status"),
	})
	if err != nil {
		h.fail(w, r, err, "failed to list lots")
		return
	}

	resp := listLotsResponse{
		Items: []lotResponse{},
		Pagination: paginationResponse{
			Page:       result.Pagination.Page,
			PageSize:   result.Pagination.PageSize,
			TotalItems: result.Pagination.TotalItems,
			TotalPages: result.Pagination.TotalPages,
		},
	}
	for _, lot := range result.Items {
		resp.Items = append(resp.Items, newLotResponse(lot))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) upsertLot(w http.ResponseWriter, r *http.Request) {
	var payload lotRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := payload.toServiceInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.UpsertLot(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "failed to persist lot", "lotId", input.ID)
		return
	}
	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) getLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	detail, err := h.service.GetLotDetail(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err, "failed to fetch lot", "lotId", lotID)
		return
	}

	resp := lotDetailResponse{
		lotResponse: newLotResponse(detail.Lot),
		Movements:   make([]movementResponse, 0, len(detail.Movements)),
	}
	for _, mv := range detail.Movements {
		resp.Movements = append(resp.Movements, movementResponse{
			MovementID: mv.ID,
			From:       mv.From,
			To:         mv.To,
			Timestamp:  formatTime(mv.Timestamp),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// lotQR answers with a PNG QR code pointing at the lot detail URL.
func (h *APIHandlers) lotQR(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	lot, err := h.service.GetLot(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err, "failed to fetch lot", "lotId", lotID)
		return
	}

	png, err := qrcode.Encode(absoluteURL(r, "/lots/"+lot.ID), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("failed to encode lot qr code", "error", err, "lotId", lot.ID)
		writeError(w, http.StatusInternalServerError, "failed to encode qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *APIHandlers) recordMovement(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")

	var payload movementRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := payload.toServiceInput(lotID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.RecordMovement(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "failed to record movement", "lotId", lotID)
		return
	}
	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) getTrace(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	trace, err := h.service.GetTrace(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err, "failed to fetch lot trace", "lotId", lotID)
		return
	}
	respondJSON(w, http.StatusOK, trace)
}

func (h *APIHandlers) getPath(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	path, err := h.service.GetPath(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err, "failed to build lot path", "lotId", lotID)
		return
	}
	respondJSON(w, http.StatusOK, pathResponse{
		LotID:    path.LotID,
		Document: render.NewDocument(path.View),
	})
}

// graphPage always answers with a page; lookup failures show the failed view.
func (h *APIHandlers) graphPage(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	status := http.StatusOK

	view := render.Failed()
	path, err := h.service.GetPath(r.Context(), lotID)
	switch {
	case err == nil:
		view = path.View
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("failed to build lot path", "error", err, "lotId", lotID)
		status = http.StatusInternalServerError
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, "Lot "+lotID, view); err != nil {
		h.logger.Error("failed to render graph page", "error", err, "lotId", lotID)
		writeError(w, http.StatusInternalServerError, "failed to render graph page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *APIHandlers) graphSVG(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	path, err := h.service.GetPath(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err, "failed to build lot path", "lotId", lotID)
		return
	}

	svg, err := render.SVG(r.Context(), path.View)
	if err != nil {
		h.logger.Error("failed to render graph svg", "error", err, "lotId", lotID)
		writeError(w, http.StatusInternalServerError, "failed to render graph")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (h *APIHandlers) upsertNode(w http.ResponseWriter, r *http.Request) {
	var payload service.NodeInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.UpsertNode(r.Context(), payload); err != nil {
		h.fail(w, r, err, "failed to persist node", "nodeId", payload.ID)
		return
	}
	respondJSON(w, http.StatusCreated, statusResponse{
		Status: "ok",
		ID:     strings.TrimSpace(string(payload.ID)),
	})
}

func (h *APIHandlers) suspectNodes(w http.ResponseWriter, r *http.Request) {
	var statuses []string
	for _, raw := range r.URL.Query()["status"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, part)
			}
		}
	}

	nodes, err := h.service.SuspectNodes(r.Context(), statuses)
	if err != nil {
		h.fail(w, r, err, "failed to analyse suspect nodes")
		return
	}

	resp := suspectNodesResponse{Items: []suspectNodeResponse{}}
	for _, n := range nodes {
		resp.Items = append(resp.Items, suspectNodeResponse{
			NodeID:      n.Node.ID,
			Name:        n.Node.Name,
			Type:        n.Node.Type,
			Occurrences: n.Occurrences,
			LotIDs:      n.LotIDs,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// fail maps service errors to responses. Unexpected errors are logged and
// answered with msg.
func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "lot not found")
	default:
		h.logger.Error(msg, append([]any{"error", err, "request_id", requestID(r.Context())}, attrs...)...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

type lotRequest struct {
	LotID         string `json:"lotId"`
	Status        string `json:"status"`
	Contamination string `json:"contamination"`
	Creator       string `json:"creator"`
	CreatedAt     string `json:"createdAt"`
}

func (req lotRequest) toServiceInput() (service.LotInput, error) {
	if strings.TrimSpace(req.LotID) == "" {
		return service.LotInput{}, errors.New("lotId is required")
	}
	input := service.LotInput{
		ID:            req.LotID,
		Status:        req.Status,
		Contamination: req.Contamination,
		Creator:       req.Creator,
	}
	if req.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			return service.LotInput{}, fmt.Errorf("invalid createdAt: %w", err)
		}
		input.CreatedAt = &ts
	}
	return input, nil
}

type movementRequest struct {
	MovementID string        `json:"movementId"`
	From       domain.NodeID `json:"from"`
	To         domain.NodeID `json:"to"`
	Timestamp  string        `json:"timestamp"`
}

func (req movementRequest) toServiceInput(lotID string) (service.MovementInput, error) {
	if req.Timestamp == "" {
		return service.MovementInput{}, errors.New("timestamp is required")
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return service.MovementInput{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	return service.MovementInput{
		ID:        req.MovementID,
		LotID:     lotID,
		From:      req.From,
		To:        req.To,
		Timestamp: ts,
	}, nil
}

type paginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type listLotsResponse struct {
	Items      []lotResponse      `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type lotResponse struct {
	LotID         string `json:"lotId"`
	Status        string `json:"status"`
	Contamination string `json:"contamination,omitempty"`
	Creator       string `json:"creator,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

func newLotResponse(lot domain.Lot) lotResponse {
	return lotResponse{
		LotID:         lot.ID,
		Status:        string(lot.Status),
		Contamination: lot.Contamination,
		Creator:       lot.Creator,
		CreatedAt:     formatTime(lot.CreatedAt),
	}
}

type lotDetailResponse struct {
	lotResponse
	Movements []movementResponse `json:"movements"`
}

type movementResponse struct {
	MovementID string       `json:"movementId"`
	From       *domain.Node `json:"from"`
	To         *domain.Node `json:"to"`
	Timestamp  string       `json:"timestamp"`
}

type pathResponse struct {
	LotID string `json:"lot_id"`
	render.Document
}

type suspectNodesResponse struct {
	Items []suspectNodeResponse `json:"items"`
}

type suspectNodeResponse struct {
	NodeID      domain.NodeID `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Occurrences int64         `json:"occurrences"`
	LotIDs      []string      `json:"lotIds"`
}

type statusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// absoluteURL resolves path against the host the request was addressed to.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: path}).String()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
