package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"

	"castlehire/internal/castles/service"
	apperrors "castlehire/pkg/errors"
	httputil "castlehire/pkg/http"
	"castlehire/pkg/logger"
	"castlehire/pkg/middleware"
	"castlehire/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CastleHandler struct {
	service  service.CastleService
	sessions middleware.SessionValidator
	log      *logger.Logger
}

func NewCastleHandler(svc service.CastleService, sessions middleware.SessionValidator, log *logger.Logger) *CastleHandler {
	return &CastleHandler{
		service:  svc,
		sessions: sessions,
		log:      log,
	}
}

// RegisterRoutes exposes the fleet list and slug lookup publicly (the
// booking form needs both); everything that mutates is admin only.
func (h *CastleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/castles", h.GetAll)
	router.GET("/api/v1/castles/slug/:slug", h.GetBySlug)

	admin := middleware.RequireAdmin(h.sessions, h.log)
	router.POST("/api/v1/castles", admin(h.Create))
	router.GET("/api/v1/castles/id/:id", admin(h.GetByID))
	router.PATCH("/api/v1/castles/id/:id", admin(h.Update))
	router.DELETE("/api/v1/castles/id/:id", admin(h.Delete))
}

func (h *CastleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var castle model.Castle
	if err := json.NewDecoder(r.Body).Decode(&castle); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &castle); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if writeErr := httputil.WriteCreated(w, castle); writeErr != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", writeErr)
	}
}

func (h *CastleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	castles, total, err := h.service.GetAll(r.Context(), activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if writeErr := httputil.WritePaginated(w, castles, total, limit, offset); writeErr != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", writeErr)
	}
}

func (h *CastleHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	castle, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		h.writeError(w, "GetBySlug", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, castle); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *CastleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	castle, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, castle); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *CastleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.CastleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	castle, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, castle); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *CastleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CastleHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
