package activity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for activity operations
type Handler struct {
	service *Service
}

// NewHandler creates a new activity handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for activity endpoints.
// Expense and settlement routers are mounted below /{activityId} by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{activityId}", h.GetByID)
	r.Put("/{activityId}", h.Update)
	r.Delete("/{activityId}", h.Delete)

	// Member management
	r.Post("/{activityId}/members", h.AddMember)
	r.Get("/{activityId}/members", h.GetMembers)
	r.Put("/{activityId}/members/{memberId}", h.UpdateMember)
	r.Delete("/{activityId}/members/{memberId}", h.RemoveMember)

	return r
}

// writeError maps service errors to HTTP responses
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrActivityNotFound), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrUnsupportedCurrency):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrMemberHasExpenses):
		response.Conflict(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

// Create handles POST /activities
// @Summary      Create an activity
// @Description  Create a shared activity whose expenses are split between members
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        request body CreateActivityRequest true "Activity creation request"
// @Success      201 {object} response.APIResponse{data=ActivityResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /activities [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to create activity")
		return
	}

	response.JSON(w, http.StatusCreated, a.ToResponse())
}

// GetByID handles GET /activities/{activityId}
// @Summary      Get activity by ID
// @Description  Get an activity with its members in the order they were added
// @Tags         activities
// @Produce      json
// @Param        activityId path string true "Activity ID"
// @Success      200 {object} response.APIResponse{data=ActivityResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /activities/{activityId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	a, members, err := h.service.GetWithMembers(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "Failed to get activity")
		return
	}

	resp := a.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// List handles GET /activities
// @Summary      List my activities
// @Tags         activities
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ActivityResponse}
// @Router       /activities [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	page, perPage := request.Pagination(r)

	activities, total, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		writeError(w, r, err, "Failed to list activities")
		return
	}

	resp := make([]*ActivityResponse, len(activities))
	for i, a := range activities {
		resp[i] = a.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// Update handles PUT /activities/{activityId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	var req UpdateActivityRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	a, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeError(w, r, err, "Failed to update activity")
		return
	}

	response.JSON(w, http.StatusOK, a.ToResponse())
}

// Delete handles DELETE /activities/{activityId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "Failed to delete activity")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Activity deleted successfully"})
}

// AddMember handles POST /activities/{activityId}/members
// @Summary      Add member to activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        activityId path string true "Activity ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /activities/{activityId}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	var req AddMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.AddMember(r.Context(), userID, activityID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// GetMembers handles GET /activities/{activityId}/members
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	members, err := h.service.GetMembers(r.Context(), userID, activityID)
	if err != nil {
		writeError(w, r, err, "Failed to get members")
		return
	}

	resp := make([]*MemberResponse, len(members))
	for i, m := range members {
		resp[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// UpdateMember handles PUT /activities/{activityId}/members/{memberId}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	memberID, ok := request.UUIDParam(r, "memberId")
	if !ok {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	var req UpdateMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.UpdateMember(r.Context(), userID, activityID, memberID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// RemoveMember handles DELETE /activities/{activityId}/members/{memberId}
// @Summary      Remove member from activity
// @Description  Members that paid for or share an expense cannot be removed
// @Tags         activities
// @Param        activityId path string true "Activity ID"
// @Param        memberId path string true "Member ID"
// @Success      200 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /activities/{activityId}/members/{memberId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	memberID, ok := request.UUIDParam(r, "memberId")
	if !ok {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), userID, activityID, memberID); err != nil {
		writeError(w, r, err, "Failed to remove member")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
