package group

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goodtricount/tricount/pkg/middleware"
	"github.com/goodtricount/tricount/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Rename)
	r.Delete("/{id}", h.Delete)

	// Membership
	r.Post("/{id}/participants", h.AddParticipant)
	r.Delete("/{id}/participants/{username}", h.RemoveParticipant)
	r.Post("/{id}/admins", h.AddAdmin)
	r.Delete("/{id}/admins/{username}", h.RemoveAdmin)
	r.Get("/{id}/members/{username}", h.Membership)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Description  Create a group; the caller becomes participant and admin
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Group name is required")
		return
	}

	g, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		if errors.Is(err, ErrGroupIDTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create group")
		return
	}

	response.JSON(w, http.StatusCreated, g.ToResponse())
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get group")
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse())
}

// ListMine handles GET /groups
// @Summary      List the caller's groups
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	groups, total, err := h.service.ListByUser(r.Context(), caller, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list groups")
		return
	}

	groupResponses := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		groupResponses[i] = g.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, groupResponses, meta)
}

// Rename handles PUT /groups/{id}
// @Summary      Rename a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body UpdateGroupRequest true "Group update request"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [put]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Rename(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err, "Failed to update group")
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse())
}

// Delete handles DELETE /groups/{id}
// @Summary      Delete a group
// @Description  Delete a group and cascade to its expenses, payments and membership
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Failed to delete group")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

// AddParticipant handles POST /groups/{id}/participants
// @Summary      Add a participant
// @Description  Add a user to the group; repeating the call is a no-op
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body MemberRequest true "Member request"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/participants [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	h.addMember(w, r, h.service.AddParticipant)
}

// AddAdmin handles POST /groups/{id}/admins
// @Summary      Add an admin
// @Description  Grant admin rights, promoting the user to participant first if needed
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body MemberRequest true "Member request"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/admins [post]
func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	h.addMember(w, r, h.service.AddAdmin)
}

func (h *Handler) addMember(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller, groupID, username string) (bool, error),
) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Username == "" {
		response.BadRequest(w, "Username is required")
		return
	}

	added, err := op(r.Context(), caller, chi.URLParam(r, "id"), req.Username)
	if err != nil {
		h.writeError(w, err, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusOK, &MemberResponse{Username: req.Username, Added: added})
}

// RemoveAdmin handles DELETE /groups/{id}/admins/{username}
// @Summary      Revoke admin role
// @Description  Revoke a user's admin role; they remain a participant
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        username path string true "Username"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/admins/{username} [delete]
func (h *Handler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	err := h.service.RemoveAdmin(r.Context(), caller, chi.URLParam(r, "id"), chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, err, "Failed to revoke admin role")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Admin role revoked successfully"})
}

// RemoveParticipant handles DELETE /groups/{id}/participants/{username}
// @Summary      Remove a participant
// @Description  Remove a user from the group, dropping any admin role with it
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        username path string true "Username"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/participants/{username} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	err := h.service.RemoveParticipant(r.Context(), caller, chi.URLParam(r, "id"), chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, err, "Failed to remove participant")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Participant removed successfully"})
}

// Membership handles GET /groups/{id}/members/{username}
// @Summary      Query membership
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        username path string true "Username"
// @Success      200 {object} response.APIResponse{data=MembershipResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/members/{username} [get]
func (h *Handler) Membership(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Membership(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "username"))
	if err != nil {
		h.writeError(w, err, "Failed to query membership")
		return
	}

	response.JSON(w, http.StatusOK, m)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrUnknownUser), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAdmin):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrGroupIDTaken):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
