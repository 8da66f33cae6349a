package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func countingHandler(status int) (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"call":%d}`, calls)
	}), &calls
}

func TestIdempotencyReplaysRepeatedSubmission(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	handler, calls := countingHandler(http.StatusCreated)
	wrapped := Idempotency(store, "")(handler)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	wrapped.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	retry := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	retry.Header.Set("Idempotency-Key", "key-1")
	wrapped.ServeHTTP(second, retry)

	if *calls != 1 {
		t.Errorf("handler ran %d times, want 1", *calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("replayed status = %d, want %d", second.Code, http.StatusCreated)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestIdempotencyKeyIsScopedToEndpoint(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	handler, calls := countingHandler(http.StatusOK)
	wrapped := Idempotency(store, "")(handler)

	create := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	create.Header.Set("Idempotency-Key", "key-1")
	wrapped.ServeHTTP(httptest.NewRecorder(), create)

	// Same key against a different endpoint must reach the handler.
	cancel := httptest.NewRequest(http.MethodPost, "/api/bookings/b1/cancel", nil)
	cancel.Header.Set("Idempotency-Key", "key-1")
	wrapped.ServeHTTP(httptest.NewRecorder(), cancel)

	if *calls != 2 {
		t.Errorf("handler ran %d times, want 2", *calls)
	}
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	handler, calls := countingHandler(http.StatusUnprocessableEntity)
	wrapped := Idempotency(store, "")(handler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}

	// A rejected booking stays retryable after the customer fixes it.
	if *calls != 2 {
		t.Errorf("handler ran %d times, want 2", *calls)
	}
}

func TestIdempotencyIgnoresRequestsWithoutKey(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	handler, calls := countingHandler(http.StatusOK)
	wrapped := Idempotency(store, "")(handler)

	for i := 0; i < 2; i++ {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	}

	if *calls != 2 {
		t.Errorf("handler ran %d times, want 2", *calls)
	}
}
