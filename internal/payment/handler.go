package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goodtricount/tricount/internal/group"
	"github.com/goodtricount/tricount/pkg/middleware"
	"github.com/goodtricount/tricount/pkg/response"
)

// Handler handles HTTP requests for payment operations
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for payment endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/confirm", h.Confirm)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /payments
// @Summary      Record a payment
// @Description  Record a pending payment from the caller to another participant
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Payment creation request"
// @Success      201 {object} response.APIResponse{data=PaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.GroupID == "" || req.Receiver == "" {
		response.BadRequest(w, "Group id and receiver are required")
		return
	}

	p, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create payment")
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}

// GetByID handles GET /payments/{id}
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /payments/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get payment")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// ListByGroup handles GET /payments/group/{groupId}
// @Summary      List a group's payments
// @Tags         payments
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /payments/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	payments, total, err := h.service.ListByGroup(r.Context(), chi.URLParam(r, "groupId"), page, perPage)
	if err != nil {
		h.writeError(w, err, "Failed to list payments")
		return
	}

	paymentResponses := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		paymentResponses[i] = p.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, paymentResponses, meta)
}

// Confirm handles POST /payments/{id}/confirm
// @Summary      Confirm a payment
// @Description  Transition a pending payment to confirmed; only the receiver may confirm
// @Tags         payments
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /payments/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.service.Confirm(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, err, "Failed to confirm payment")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Delete handles DELETE /payments/{id}
// @Summary      Delete a payment
// @Description  Delete a pending payment; only the payer may delete, confirmed payments are immutable
// @Tags         payments
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /payments/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsername(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		h.writeError(w, err, "Failed to delete payment")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Payment deleted successfully"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPaymentNotFound), errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNonPositiveAmount), errors.Is(err, ErrSelfPayment), errors.Is(err, ErrNotParticipant):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotReceiver), errors.Is(err, ErrNotPayer):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
