package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ccpk1/kidschores-ha-sub014/internal/handler/dto"
	"github.com/ccpk1/kidschores-ha-sub014/internal/middleware"
	"github.com/ccpk1/kidschores-ha-sub014/internal/service"
	"github.com/ccpk1/kidschores-ha-sub014/internal/store"
)

// StreakSource answers streak and multiplier queries for the balance
// endpoint. Satisfied by the badge engine.
type StreakSource interface {
	Streak(assigneeID string) int
	CurrentMultiplier(assigneeID string) float64
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store          store.Store
	orchestrator   *service.Orchestrator
	streaks        StreakSource
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies. A nil streaks
// source reports no streak and a 1.0 multiplier.
func New(st store.Store, orch *service.Orchestrator, streaks StreakSource) *Handler {
	return &Handler{
		store:          st,
		orchestrator:   orch,
		streaks:        streaks,
		authMiddleware: middleware.NewAuthMiddleware(orch),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes with authentication
	mux.Handle("GET /api/v1/chores", h.auth(h.handleListChores))
	mux.Handle("POST /api/v1/chores", h.auth(h.handleCreateChore))
	mux.Handle("GET /api/v1/chores/{id}", h.auth(h.handleGetChore))
	mux.Handle("POST /api/v1/chores/{id}/claim", h.auth(h.handleClaim))
	mux.Handle("POST /api/v1/chores/{id}/approve", h.auth(h.handleApprove))
	mux.Handle("POST /api/v1/chores/{id}/disapprove", h.auth(h.handleDisapprove))
	mux.Handle("POST /api/v1/chores/{id}/skip", h.auth(h.handleSkip))
	mux.Handle("PUT /api/v1/chores/{id}/due-date", h.auth(h.handleSetDueDate))
	mux.Handle("GET /api/v1/chores/{id}/calendar", h.auth(h.handleCalendar))
	mux.Handle("DELETE /api/v1/chores/{id}/assignees/{assignee_id}", h.auth(h.handleRemoveAssignee))

	mux.Handle("GET /api/v1/assignees", h.auth(h.handleListAssignees))
	mux.Handle("POST /api/v1/assignees", h.auth(h.handleCreateAssignee))
	mux.Handle("GET /api/v1/assignees/{id}/balance", h.auth(h.handleBalance))
	mux.Handle("GET /api/v1/assignees/{id}/ledger", h.auth(h.handleLedger))
}

func (h *Handler) auth(fn http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(fn)
}

// handleHealthz returns 200 OK if the store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Ping(ctx); err != nil {
		slog.Error("store health check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the store is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.store.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a domain error and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractChoreID extracts and validates the chore ID path parameter.
// Returns ("", false) if invalid (error already sent to the client).
func extractChoreID(w http.ResponseWriter, r *http.Request) (string, bool) {
	choreID := r.PathValue("id")
	if choreID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "chore id is required")
		return "", false
	}
	return choreID, true
}
