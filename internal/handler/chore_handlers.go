package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/handler/dto"
	"github.com/ccpk1/kidschores-ha-sub014/internal/middleware"
)

// handleCreateChore creates a new chore configuration.
func (h *Handler) handleCreateChore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	if !actor.IsApprover {
		respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", "only approvers may create chores")
		return
	}

	var req dto.CreateChoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	chore := req.ToChore()
	if err := h.orchestrator.CreateChore(ctx, chore); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToChoreResponse(chore))
}

// handleListChores lists all chore configurations.
func (h *Handler) handleListChores(w http.ResponseWriter, r *http.Request) {
	chores := h.orchestrator.Chores()

	resp := dto.ChoresListResponse{
		Chores: make([]dto.ChoreListItem, 0, len(chores)),
		Total:  len(chores),
	}
	for _, c := range chores {
		complete, err := h.orchestrator.FullyComplete(c.ID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		resp.Chores = append(resp.Chores, dto.ChoreListItem{
			ChoreResponse: dto.ToChoreResponse(c),
			FullyComplete: complete,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetChore returns a chore with its records and event history.
func (h *Handler) handleGetChore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	chore, err := h.orchestrator.ChoreByID(choreID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	records, err := h.orchestrator.RecordsFor(ctx, choreID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	complete, err := h.orchestrator.FullyComplete(choreID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	events, err := h.orchestrator.Events(ctx, choreID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch events")
		return
	}

	resp := dto.ChoreDetailResponse{
		Chore:         dto.ToChoreResponse(chore),
		Records:       make([]dto.RecordResponse, 0, len(records)),
		FullyComplete: complete,
		Events:        make([]dto.EventResponse, 0, len(events)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, dto.ToRecordResponse(rec))
	}
	for _, event := range events {
		resp.Events = append(resp.Events, dto.ToEventResponse(event))
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleClaim claims a chore. The assignee defaults to the caller.
func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	var req dto.ClaimRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}
	assigneeID := actor.ID
	if req.AssigneeID != nil {
		assigneeID = *req.AssigneeID
	}

	event, err := h.orchestrator.Claim(ctx, choreID, assigneeID, actor.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleApprove approves an assignee's completion of a chore.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.AssigneeID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee_id is required")
		return
	}

	event, err := h.orchestrator.Approve(ctx, choreID, req.AssigneeID, actor.ID, req.PointsOverride)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleDisapprove reverses a claim or approval.
func (h *Handler) handleDisapprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	var req dto.DisapproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.AssigneeID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee_id is required")
		return
	}

	event, err := h.orchestrator.Disapprove(ctx, choreID, req.AssigneeID, actor.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// handleSkip advances the due date to the next occurrence without credit.
func (h *Handler) handleSkip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	var req dto.SkipRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
	}

	if err := h.orchestrator.Skip(ctx, choreID, req.AssigneeID, actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetDueDate overrides or clears the due date.
func (h *Handler) handleSetDueDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	var req dto.SetDueDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.orchestrator.SetDueDate(ctx, choreID, req.DueAt, req.AssigneeID, actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCalendar projects future occurrences of a chore.
func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}

	from := time.Now().UTC()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "from must be RFC 3339")
			return
		}
		from = parsed
	}

	count := 10
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "count must be between 1 and 100")
			return
		}
		count = parsed
	}

	var assigneeID *string
	if raw := r.URL.Query().Get("assignee"); raw != "" {
		assigneeID = &raw
	}

	occurrences, err := h.orchestrator.Calendar(choreID, assigneeID, from, count)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.CalendarResponse{
		ChoreID:     choreID,
		Occurrences: occurrences,
	})
}

// handleRemoveAssignee retires an assignee's record on a chore.
func (h *Handler) handleRemoveAssignee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetAssigneeFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}
	if !actor.IsApprover {
		respondError(w, http.StatusForbidden, "NOT_AUTHORIZED", "only approvers may unassign chores")
		return
	}
	choreID, ok := extractChoreID(w, r)
	if !ok {
		return
	}
	assigneeID := r.PathValue("assignee_id")
	if assigneeID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "assignee id is required")
		return
	}

	if err := h.orchestrator.RemoveAssignee(ctx, choreID, assigneeID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
