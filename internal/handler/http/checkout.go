package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantleaf/storefront/internal/domain"
	"github.com/verdantleaf/storefront/internal/service"
	"github.com/verdantleaf/storefront/pkg/httputil"
	"github.com/verdantleaf/storefront/pkg/validator"
)

// CheckoutHandler handles HTTP requests for the checkout flow. Every session
// route runs an ownership check before touching the session.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SetAddressRequest is the JSON request body for the address step. In
// existing mode address_id selects a saved address; in new mode the draft
// fields carry the form. Field-level validation happens when the step is
// left, not when it is saved.
type SetAddressRequest struct {
	Mode      string `json:"mode" validate:"required,oneof=existing new"`
	AddressID string `json:"address_id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// SetShippingRequest is the JSON request body for choosing a shipping method.
type SetShippingRequest struct {
	MethodID string `json:"method_id" validate:"required"`
}

// SetPaymentRequest is the JSON request body for the payment step.
type SetPaymentRequest struct {
	GatewayID  string `json:"gateway_id" validate:"required"`
	CardMode   string `json:"card_mode" validate:"required,oneof=existing new"`
	CardID     string `json:"card_id"`
	CardNumber string `json:"card_number"`
	HolderName string `json:"holder_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// GoToStepRequest is the JSON request body for jumping to a step.
type GoToStepRequest struct {
	Step string `json:"step" validate:"required,oneof=address shipping payment review"`
}

// --- Handlers ---

// StartCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return
	}

	session, err := h.service.Start(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: session})
}

// GetSession handles GET /api/v1/checkout/{sessionId}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// SetAddress handles PUT /api/v1/checkout/{sessionId}/address
func (h *CheckoutHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	var req SetAddressRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SetAddress(r.Context(), sessionID, domain.AddressSelection{
		Mode:      req.Mode,
		AddressID: req.AddressID,
		Draft: domain.AddressDraft{
			Name:    req.Name,
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
		},
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// SetShipping handles PUT /api/v1/checkout/{sessionId}/shipping
func (h *CheckoutHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	var req SetShippingRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SetShippingMethod(r.Context(), sessionID, req.MethodID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// SetPayment handles PUT /api/v1/checkout/{sessionId}/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	var req SetPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SetPayment(r.Context(), sessionID, domain.PaymentSelection{
		GatewayID: req.GatewayID,
		CardMode:  req.CardMode,
		CardID:    req.CardID,
		CardDraft: domain.CardDraft{
			Number:     req.CardNumber,
			HolderName: req.HolderName,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
		},
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Advance handles POST /api/v1/checkout/{sessionId}/advance
func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	session, err := h.service.Advance(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// Back handles POST /api/v1/checkout/{sessionId}/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	session, err := h.service.Back(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// GoToStep handles POST /api/v1/checkout/{sessionId}/step
func (h *CheckoutHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	var req GoToStepRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.GoTo(r.Context(), sessionID, domain.Step(req.Step))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// PlaceOrder handles POST /api/v1/checkout/{sessionId}/order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if !h.owns(w, r, sessionID) {
		return
	}

	session, err := h.service.PlaceOrder(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// --- Helpers ---

// decode parses and validates the request body, writing the error response
// itself when something is wrong.
func (h *CheckoutHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	if err := validator.Validate(v); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

// owns loads the session and checks it belongs to the requesting user before
// anything else runs. A foreign session reads as not found, so session IDs
// leak no information across users.
func (h *CheckoutHandler) owns(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return false
	}
	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return false
	}
	if session.UserID != userID {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"},
		})
		return false
	}
	return true
}
