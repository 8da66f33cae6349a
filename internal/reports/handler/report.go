package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"castlehire/internal/reports/service"
	apperrors "castlehire/pkg/errors"
	httputil "castlehire/pkg/http"
	"castlehire/pkg/logger"
	"castlehire/pkg/middleware"
)

type ReportHandler struct {
	service  service.ReportService
	sessions middleware.SessionValidator
	log      *logger.Logger
}

func NewReportHandler(svc service.ReportService, sessions middleware.SessionValidator, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service:  svc,
		sessions: sessions,
		log:      log,
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	admin := middleware.RequireAdmin(h.sessions, h.log)
	router.GET("/api/v1/reports/summary", admin(h.Summary))
	router.GET("/api/v1/reports/summary.pdf", admin(h.SummaryPDF))
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fromDate, toDate, ok := h.windowParams(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), fromDate, toDate)
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	if writeErr := httputil.WriteSuccess(w, summary); writeErr != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "operation", "WriteSuccess", "error", writeErr)
	}
}

func (h *ReportHandler) SummaryPDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fromDate, toDate, ok := h.windowParams(w, r)
	if !ok {
		return
	}

	pdf, err := h.service.SummaryPDF(r.Context(), fromDate, toDate)
	if err != nil {
		h.writeError(w, "SummaryPDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		h.log.Error("failed to write PDF response", "handler", "SummaryPDF", "error", err)
	}
}

func (h *ReportHandler) windowParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	query := r.URL.Query()
	fromDate := query.Get("from")
	toDate := query.Get("to")
	if fromDate == "" || toDate == "" {
		h.writeError(w, "windowParams", apperrors.InvalidInput("from and to query parameters are required"))
		return "", "", false
	}
	return fromDate, toDate, true
}

func (h *ReportHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
