package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/dispatch"
	"github.com/RuhiModi/exotel-voice-agent/internal/storage"
)

// DispatchHandler serves the outbound-call endpoints.
type DispatchHandler struct {
	dispatcher *dispatch.Dispatcher
	store      storage.Store
	logger     zerolog.Logger
}

// NewDispatchHandler creates the dispatch handler.
func NewDispatchHandler(dispatcher *dispatch.Dispatcher, store storage.Store, logger zerolog.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

type callRequest struct {
	Phone string `json:"phone"`
}

type callResponse struct {
	CallSid string `json:"callSid"`
}

type bulkRequest struct {
	Phones  []string `json:"phones"`
	BatchID string   `json:"batchId,omitempty"`
}

type bulkResponse struct {
	BatchID   string `json:"batchId"`
	Scheduled int    `json:"scheduled"`
}

// HandleCall handles POST /api/call
func (h *DispatchHandler) HandleCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Phone == "" {
		http.Error(w, "missing phone field", http.StatusBadRequest)
		return
	}

	callSid, err := h.dispatcher.CallOne(r.Context(), req.Phone)
	if err != nil {
		h.logger.Error().Err(err).Str("phone", req.Phone).Msg("single dispatch failed")
		http.Error(w, "failed to place call", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(callResponse{CallSid: callSid})
}

// HandleBulk handles POST /api/call/bulk. It answers as soon as the
// batch is scheduled; dialing proceeds in the background.
func (h *DispatchHandler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Phones) == 0 {
		http.Error(w, "missing phones field", http.StatusBadRequest)
		return
	}

	batchID, scheduled := h.dispatcher.CallBulk(req.Phones, req.BatchID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(bulkResponse{BatchID: batchID, Scheduled: scheduled})
}

// HandleBatchReport handles GET /api/batch/{batchID}, the per-number
// dispatch status of a campaign.
func (h *DispatchHandler) HandleBatchReport(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if batchID == "" {
		http.Error(w, "missing batch id", http.StatusBadRequest)
		return
	}

	rows, err := h.store.GetBatch(batchID)
	if err != nil {
		h.logger.Error().Err(err).Str("batch_id", batchID).Msg("failed to read batch rows")
		http.Error(w, "failed to read batch", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"batchId": batchID,
		"count":   len(rows),
		"numbers": rows,
	})
}
