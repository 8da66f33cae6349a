package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"

	"castlehire/internal/bookings/service"
	apperrors "castlehire/pkg/errors"
	httputil "castlehire/pkg/http"
	"castlehire/pkg/logger"
	"castlehire/pkg/middleware"
	"castlehire/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type BookingHandler struct {
	service       service.BookingService
	sessions      middleware.SessionValidator
	webhookSecret string
	log           *logger.Logger
}

func NewBookingHandler(svc service.BookingService, sessions middleware.SessionValidator, webhookSecret string, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:       svc,
		sessions:      sessions,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// RegisterRoutes wires the public booking API, the admin API and the
// payment webhook. Admin routes are guarded per route; the rest of the
// surface is public.
func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.POST("/api/v1/bookings/validate", h.Validate)
	router.GET("/api/v1/availability", h.Availability)
	router.POST("/api/v1/quotes", h.Quote)

	router.GET("/api/v1/manage/:token", h.Manage)
	router.DELETE("/api/v1/manage/:token", h.ManageCancel)

	admin := middleware.RequireAdmin(h.sessions, h.log)
	router.GET("/api/v1/bookings", admin(h.GetAll))
	router.GET("/api/v1/bookings/search", admin(h.Search))
	router.GET("/api/v1/bookings/id/:id", admin(h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id", admin(h.Update))
	router.DELETE("/api/v1/bookings/id/:id", admin(h.Cancel))
	router.POST("/api/v1/bookings/id/:id/confirm", admin(h.Confirm))

	verify := middleware.PaymentSignatureVerification(h.webhookSecret, h.log)
	router.Handler(http.MethodPost, "/api/v1/webhooks/payments", verify(http.HandlerFunc(h.PaymentWebhook)))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var candidate model.CandidateBooking
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, result, err := h.service.Create(r.Context(), candidate)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	if !result.IsValid {
		h.writeJSON(w, "Create", http.StatusUnprocessableEntity, httputil.SuccessResponse{Data: result})
		return
	}

	if writeErr := httputil.WriteCreated(w, booking); writeErr != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", writeErr)
	}
}

func (h *BookingHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		model.CandidateBooking
		ExcludeID string `json:"exclude_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Validate", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Validate(r.Context(), req.CandidateBooking, req.ExcludeID)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, result); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	castle := query.Get("castle")
	date := query.Get("date")
	if castle == "" || date == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("castle and date query parameters are required"))
		return
	}

	result, err := h.service.Availability(r.Context(), castle, date, query.Get("start"), query.Get("end"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, result); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Quote", apperrors.InvalidInput("Invalid request body"))
		return
	}

	breakdown, err := h.service.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, breakdown); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if writeErr := httputil.WritePaginated(w, bookings, total, limit, offset); writeErr != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", writeErr)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	query := r.URL.Query()
	bookings, total, err := h.service.Search(r.Context(),
		query.Get("castle"),
		query.Get("status"),
		query.Get("from"),
		query.Get("to"),
		limit, offset,
	)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if writeErr := httputil.WritePaginated(w, bookings, total, limit, offset); writeErr != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", writeErr)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, booking); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, result, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	if !result.IsValid {
		h.writeJSON(w, "Update", http.StatusUnprocessableEntity, httputil.SuccessResponse{Data: result})
		return
	}

	if writeErr := httputil.WriteSuccess(w, booking); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Confirm(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, booking); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) Manage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByManageToken(r.Context(), ps.ByName("token"))
	if err != nil {
		h.writeError(w, "Manage", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, booking); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Manage", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *BookingHandler) ManageCancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.CancelByManageToken(r.Context(), ps.ByName("token")); err != nil {
		h.writeError(w, "ManageCancel", err)
		return
	}
	httputil.WriteNoContent(w)
}

// PaymentWebhook handles charge notifications from the payment provider.
// Signature verification happens in middleware; the charge itself is
// re-fetched from the provider before anything changes state.
func (h *BookingHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChargeID string `json:"charge_id"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "PaymentWebhook", apperrors.InvalidInput("Invalid webhook body"))
		return
	}
	if payload.ChargeID == "" {
		h.writeError(w, "PaymentWebhook", apperrors.InvalidInput("charge_id is required"))
		return
	}

	if err := h.service.RecordPayment(r.Context(), payload.ChargeID); err != nil {
		h.writeError(w, "PaymentWebhook", err)
		return
	}

	h.writeJSON(w, "PaymentWebhook", http.StatusOK, map[string]string{"status": "processed"})
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if writeErr := httputil.WriteJSON(w, status, body); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
	}
}
