package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"castlehire/internal/bookings/service"
	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/logger"
	"castlehire/pkg/middleware"
	"castlehire/pkg/model"
	"castlehire/pkg/pricing"
)

// Mock service for testing
type mockBookingService struct {
	createFunc        func(ctx context.Context, candidate model.CandidateBooking) (*model.Booking, *model.ValidationResult, error)
	validateFunc      func(ctx context.Context, candidate model.CandidateBooking, excludeID string) (*model.ValidationResult, error)
	availabilityFunc  func(ctx context.Context, castle, date, startTime, endTime string) (*service.AvailabilityResult, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	recordPaymentFunc func(ctx context.Context, chargeID string) error
}

func (m *mockBookingService) Create(ctx context.Context, candidate model.CandidateBooking) (*model.Booking, *model.ValidationResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, candidate)
	}
	return &model.Booking{ID: "65f000000000000000000001", Status: model.StatusPending}, &model.ValidationResult{IsValid: true}, nil
}

func (m *mockBookingService) Validate(ctx context.Context, candidate model.CandidateBooking, excludeID string) (*model.ValidationResult, error) {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, candidate, excludeID)
	}
	return &model.ValidationResult{IsValid: true}, nil
}

func (m *mockBookingService) Availability(ctx context.Context, castle, date, startTime, endTime string) (*service.AvailabilityResult, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, castle, date, startTime, endTime)
	}
	return &service.AvailabilityResult{Castle: castle, Date: date, Available: true}, nil
}

func (m *mockBookingService) Quote(ctx context.Context, req service.QuoteRequest) (*pricing.Breakdown, error) {
	return &pricing.Breakdown{Total: 80, Deposit: 20, Days: 1}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Search(ctx context.Context, castle, status, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, *model.ValidationResult, error) {
	return &model.Booking{ID: id}, &model.ValidationResult{IsValid: true}, nil
}

func (m *mockBookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: model.StatusConfirmed}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) GetByManageToken(ctx context.Context, token string) (*model.Booking, error) {
	return &model.Booking{ID: "65f000000000000000000001"}, nil
}

func (m *mockBookingService) CancelByManageToken(ctx context.Context, token string) error {
	return nil
}

func (m *mockBookingService) RecordPayment(ctx context.Context, chargeID string) error {
	if m.recordPaymentFunc != nil {
		return m.recordPaymentFunc(ctx, chargeID)
	}
	return nil
}

type mockSessions struct {
	session *middleware.Session
	err     error
}

func (m *mockSessions) Validate(ctx context.Context, token string) (*middleware.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

const testWebhookSecret = "whsec_test"

func testLog() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

func newTestRouter(svc service.BookingService, sessions middleware.SessionValidator) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, sessions, testWebhookSecret, testLog()).RegisterRoutes(router)
	return router
}

func adminSessions() *mockSessions {
	return &mockSessions{session: &middleware.Session{UserID: "u1", Email: "ops@castlehire.example", Role: "admin"}}
}

func TestCreateReturnsCreated(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, adminSessions())

	body := `{"customer_name":"Priya Shah","customer_email":"priya@example.com","customer_phone":"+447700900123","address":"12 Meadow Lane","date":"2024-07-04","start_time":"12:00","end_time":"15:00","castle":"Jungle Adventure"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Error("expected created booking in data envelope")
	}
}

func TestCreateInvalidResultReturns422(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, candidate model.CandidateBooking) (*model.Booking, *model.ValidationResult, error) {
			return nil, &model.ValidationResult{
				IsValid:   false,
				Conflicts: []model.Conflict{{Type: model.ConflictSameCastle, BookingID: "65f000000000000000000009"}},
				Suggestions: []model.Slot{
					{Date: "2024-07-05", StartTime: "12:00", EndTime: "15:00"},
				},
			}, nil
		},
	}
	router := newTestRouter(svc, adminSessions())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp struct {
		Data model.ValidationResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Conflicts) != 1 || len(resp.Data.Suggestions) != 1 {
		t.Errorf("expected conflicts and suggestions in body, got %+v", resp.Data)
	}
}

func TestCreateMalformedBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, adminSessions())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"date":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAvailabilityRequiresCastleAndDate(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, adminSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2024-07-04", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without castle, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, adminSessions())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/bookings"},
		{http.MethodGet, "/api/v1/bookings/search"},
		{http.MethodGet, "/api/v1/bookings/id/65f000000000000000000001"},
		{http.MethodPatch, "/api/v1/bookings/id/65f000000000000000000001"},
		{http.MethodDelete, "/api/v1/bookings/id/65f000000000000000000001"},
		{http.MethodPost, "/api/v1/bookings/id/65f000000000000000000001/confirm"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAdminRoutesRejectNonAdminSession(t *testing.T) {
	sessions := &mockSessions{session: &middleware.Session{UserID: "u2", Role: "viewer"}}
	router := newTestRouter(&mockBookingService{}, sessions)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-admin session, got %d", rec.Code)
	}
}

func TestAdminRouteAllowsAdmin(t *testing.T) {
	router := newTestRouter(&mockBookingService{}, adminSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin session, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetByIDMapsNotFound(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newTestRouter(svc, adminSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/65f000000000000000000002", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentWebhook(t *testing.T) {
	var recorded string
	svc := &mockBookingService{
		recordPaymentFunc: func(ctx context.Context, chargeID string) error {
			recorded = chargeID
			return nil
		},
	}
	router := newTestRouter(svc, adminSessions())

	body := []byte(`{"charge_id":"ch_123","type":"charge.succeeded"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("X-Payment-Signature", signWebhook(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if recorded != "ch_123" {
		t.Errorf("service saw charge %q", recorded)
	}
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	called := false
	svc := &mockBookingService{
		recordPaymentFunc: func(ctx context.Context, chargeID string) error {
			called = true
			return nil
		},
	}
	router := newTestRouter(svc, adminSessions())

	body := []byte(`{"charge_id":"ch_123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("X-Payment-Signature", "sha256=deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad signature, got %d", rec.Code)
	}
	if called {
		t.Error("service must not run on a bad signature")
	}
}

func TestPaymentWebhookSessionMockUnused(t *testing.T) {
	// The webhook path must not require a session: only the signature
	// guards it.
	sessions := &mockSessions{err: errors.New("session service down")}
	router := newTestRouter(&mockBookingService{}, sessions)

	body := []byte(`{"charge_id":"ch_456"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("X-Payment-Signature", signWebhook(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
