package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/handler/dto"
	"github.com/ccpk1/kidschores-ha-sub014/internal/middleware"
)

// handleCreateAssignee registers a new participant.
func (h *Handler) handleCreateAssignee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	if !actor.IsApprover {
		respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", "only approvers may add assignees")
		return
	}

	var req dto.CreateAssigneeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "token is required")
		return
	}

	assignee := &domain.Assignee{
		Name:       req.Name,
		Token:      req.Token,
		IsApprover: req.IsApprover,
		IsActive:   true,
	}
	if err := h.orchestrator.AddAssignee(ctx, assignee); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAssigneeResponse(assignee, 0))
}

// handleListAssignees lists all participants with their balances.
func (h *Handler) handleListAssignees(w http.ResponseWriter, r *http.Request) {
	assignees := h.orchestrator.Assignees()

	resp := make([]dto.AssigneeResponse, 0, len(assignees))
	for _, a := range assignees {
		resp = append(resp, dto.ToAssigneeResponse(a, h.orchestrator.Balance(a.ID)))
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleBalance returns the assignee's balance with their current streak
// and points multiplier.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	assigneeID := r.PathValue("id")
	if assigneeID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "assignee id is required")
		return
	}

	if _, err := h.orchestrator.AssigneeByID(assigneeID); err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.BalanceResponse{
		AssigneeID: assigneeID,
		Balance:    h.orchestrator.Balance(assigneeID),
		Multiplier: 1.0,
	}
	if h.streaks != nil {
		resp.Streak = h.streaks.Streak(assigneeID)
		resp.Multiplier = h.streaks.CurrentMultiplier(assigneeID)
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleLedger returns the point history of an assignee.
func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assigneeID := r.PathValue("id")
	if assigneeID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "assignee id is required")
		return
	}

	entries, err := h.orchestrator.LedgerFor(ctx, assigneeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.LedgerResponse{
		AssigneeID: assigneeID,
		Balance:    h.orchestrator.Balance(assigneeID),
		Entries:    make([]dto.LedgerEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, dto.ToLedgerEntryResponse(entry))
	}
	respondJSON(w, http.StatusOK, resp)
}
