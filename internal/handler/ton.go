package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/ton-boc-backend/internal/metrics"
	"github.com/AlexZinkM/ton-boc-backend/internal/model"
	"github.com/AlexZinkM/ton-boc-backend/ton"

	"go.uber.org/zap"
)

const (
	// the only error text a caller ever sees
	errGenerateBOC = "Failed to generate BOC"

	maxBodyBytes = 100 << 10
)

// BOCGenerator signs transfers from the service wallet
type BOCGenerator interface {
	GenerateBOC(ctx context.Context, toAddress, amount string) (*model.BOCResponse, error)
}

// TonHandler serves the TON transfer endpoints
type TonHandler struct {
	transfers     BOCGenerator
	walletAddress string
	log           *zap.Logger
	metrics       *metrics.Metrics
}

// NewTonHandler creates a new TonHandler
func NewTonHandler(transfers BOCGenerator, walletAddress string, log *zap.Logger, m *metrics.Metrics) *TonHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TonHandler{
		transfers:     transfers,
		walletAddress: walletAddress,
		log:           log.Named("http"),
		metrics:       m,
	}
}

// GenerateBOC handles POST /generate-boc
// @Summary      Sign a TON transfer
// @Description  Builds a transfer of amount TON from the service wallet to toAddress, signs it and returns the serialized BOC in base64. The transfer is not broadcast.
// @Tags         ton
// @Accept       json
// @Produce      json
// @Param        request  body      model.BOCRequest  true  "Transfer data"
// @Success      200      {object}  model.BOCResponse
// @Failure      500      {object}  model.ErrorResponse
// @Router       /generate-boc [post]
func (h *TonHandler) GenerateBOC(w http.ResponseWriter, r *http.Request) {
	// Check method
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	// Parse request body
	var req model.BOCRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.log.Error("failed to decode request", zap.String("kind", metrics.OutcomeBadRequest), zap.Error(err))
		h.metrics.ObserveRequest(metrics.OutcomeBadRequest)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: errGenerateBOC})
		return
	}

	// Sign transfer
	resp, err := h.transfers.GenerateBOC(r.Context(), req.ToAddress, req.Amount.String())
	if err != nil {
		kind := ton.KindOf(err)
		h.log.Error("failed to generate BOC",
			zap.String("kind", kind.String()),
			zap.String("to", req.ToAddress),
			zap.String("amount", req.Amount.String()),
			zap.Error(err),
		)
		h.metrics.ObserveRequest(kind.String())
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: errGenerateBOC})
		return
	}

	// Send response
	h.metrics.ObserveRequest(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health
// @Summary      Service health
// @Description  Reports liveness and the address of the signing wallet
// @Tags         ops
// @Produce      json
// @Success      200  {object}  model.HealthResponse
// @Router       /health [get]
func (h *TonHandler) Health(w http.ResponseWriter, r *http.Request) {
	// Check method
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:  "ok",
		Address: h.walletAddress,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
