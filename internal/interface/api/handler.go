package api

import (
	"encoding/json"
	"net/http"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const welcomeMessage = "An API for use with your Dapp!"

// Handler serves the relay's read-only HTTP API
type Handler struct {
	registry  repository.OracleRegistry
	eventRepo repository.OracleEventRepository
	logger    logger.Logger
}

// NewHandler creates a new relay API handler
func NewHandler(registry repository.OracleRegistry, eventRepo repository.OracleEventRepository, logger logger.Logger) *Handler {
	return &Handler{
		registry:  registry,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// NewRouter wires the API, health and metrics endpoints
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api", h.Welcome)
	mux.HandleFunc("GET /api/oracles", h.ListOracles)
	mux.HandleFunc("GET /api/responses", h.ListResponses)
	mux.HandleFunc("GET /api/reports", h.ListReports)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	return mux
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

// Welcome handles GET /api
func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

// ListOracles handles GET /api/oracles
func (h *Handler) ListOracles(w http.ResponseWriter, r *http.Request) {
	oracles := h.registry.All()
	if oracles == nil {
		oracles = []entity.OracleRegistration{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(oracles),
		"oracles": oracles,
	})
}

// ListResponses handles GET /api/responses
func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	page := utils.GetPagination(r.URL.Query())

	responses, err := h.eventRepo.ListResponses(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.logger.Error("Failed to list oracle responses", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list oracle responses"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":      page.Page,
		"limit":     page.Limit,
		"responses": responses,
	})
}

// ListReports handles GET /api/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	page := utils.GetPagination(r.URL.Query())

	reports, err := h.eventRepo.ListReports(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.logger.Error("Failed to list oracle reports", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list oracle reports"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":    page.Page,
		"limit":   page.Limit,
		"reports": reports,
	})
}
