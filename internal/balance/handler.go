package balance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goodtricount/tricount/pkg/middleware"
	"github.com/goodtricount/tricount/pkg/response"
)

// Handler handles HTTP requests for balance queries
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GroupBalances)

	return r
}

// GroupBalances handles GET /balances/group/{groupId}
// @Summary      Get a group's balances
// @Description  Per-participant paid, fair share, confirmed transfers and net position
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SummaryResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summaries, err := h.service.GroupBalances(r.Context(), caller, chi.URLParam(r, "groupId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute balances")
		}
		return
	}

	summaryResponses := make([]SummaryResponse, len(summaries))
	for i := range summaries {
		summaryResponses[i] = summaries[i].ToResponse()
	}

	response.JSON(w, http.StatusOK, summaryResponses)
}
