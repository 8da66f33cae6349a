package bookings

import (
	"context"
	"net/http"
	"testing"

	"castlehire/pkg/client"
	"castlehire/pkg/model"
	"castlehire/test/integration/testutil"
)

func setup(t *testing.T) (*testutil.MongoHelper, *client.BookingClient) {
	t.Helper()
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })

	mongo.InsertCastle(t, testutil.NewCastleBuilder().Build())

	api := client.NewBookingClient(env.ServerURL)
	if env.AdminToken != "" {
		api.WithAdminToken(env.AdminToken)
	}
	if err := api.WaitForHealthy(testutil.DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("bookings service not healthy: %v", err)
	}
	return mongo, api
}

func mustCreate(t *testing.T, api *client.BookingClient, candidate model.CandidateBooking) *model.Booking {
	t.Helper()

	resp, err := api.Create(context.Background(), candidate)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	booking, err := api.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	return booking
}

func TestCreateBooking(t *testing.T) {
	mongo, api := setup(t)

	booking := mustCreate(t, api, testutil.NewBookingBuilder().Build())

	if booking.ID == "" {
		t.Error("created booking has no id")
	}
	if booking.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", booking.Status)
	}
	if booking.TotalPrice != 80 {
		t.Errorf("total_price = %v, want the server-computed 80", booking.TotalPrice)
	}
	if booking.ManageToken == "" {
		t.Error("created booking has no manage token")
	}
	if n := mongo.CountDocuments(t, testutil.BookingsCollection); n != 1 {
		t.Errorf("bookings in database = %d, want 1", n)
	}
}

func TestDoubleBookingRejectedWithSuggestions(t *testing.T) {
	mongo, api := setup(t)
	ctx := context.Background()

	mustCreate(t, api, testutil.NewBookingBuilder().Build())

	resp, err := api.Create(ctx, testutil.NewBookingBuilder().
		WithCustomer("Tom Wilde", "tom@example.com").
		WithWindow("12:00", "16:00").
		Build())
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)

	result, err := api.DecodeValidationResult(resp)
	if err != nil {
		t.Fatalf("decode validation result: %v", err)
	}
	if result.IsValid {
		t.Error("overlapping booking reported as valid")
	}
	if len(result.Conflicts) == 0 {
		t.Error("expected at least one conflict")
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected alternative slot suggestions")
	}
	if n := mongo.CountDocuments(t, testutil.BookingsCollection); n != 1 {
		t.Errorf("bookings in database = %d, want only the first", n)
	}
}

func TestAdjacentSlotsBothAccepted(t *testing.T) {
	_, api := setup(t)

	mustCreate(t, api, testutil.NewBookingBuilder().WithWindow("09:00", "12:00").Build())

	// Back to back is not an overlap.
	mustCreate(t, api, testutil.NewBookingBuilder().
		WithCustomer("Tom Wilde", "tom@example.com").
		WithWindow("12:00", "15:00").
		Build())
}

func TestAvailability(t *testing.T) {
	_, api := setup(t)
	ctx := context.Background()

	candidate := testutil.NewBookingBuilder().Build()
	mustCreate(t, api, candidate)

	free, err := api.Availability(ctx, "Jungle Adventure", candidate.Date, "15:00", "17:00")
	if err != nil {
		t.Fatalf("availability request failed: %v", err)
	}
	testutil.AssertStatusCode(t, free, http.StatusOK)
	testutil.AssertContains(t, free, `"available":true`)

	taken, err := api.Availability(ctx, "Jungle Adventure", candidate.Date, "11:00", "13:00")
	if err != nil {
		t.Fatalf("availability request failed: %v", err)
	}
	testutil.AssertStatusCode(t, taken, http.StatusOK)
	testutil.AssertContains(t, taken, `"available":false`)
}

func TestValidateDryRun(t *testing.T) {
	mongo, api := setup(t)

	resp, err := api.Validate(context.Background(), testutil.NewBookingBuilder().Build())
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, `"is_valid":true`)

	if n := mongo.CountDocuments(t, testutil.BookingsCollection); n != 0 {
		t.Errorf("dry-run persisted %d bookings", n)
	}
}

func TestQuote(t *testing.T) {
	_, api := setup(t)

	resp, err := api.Quote(context.Background(), map[string]any{
		"castle": "Jungle Adventure",
		"date":   testutil.NewBookingBuilder().Build().Date,
	})
	if err != nil {
		t.Fatalf("quote request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, `"total":80`)
}

func TestManageTokenFlow(t *testing.T) {
	_, api := setup(t)
	ctx := context.Background()

	booking := mustCreate(t, api, testutil.NewBookingBuilder().Build())

	fetched, err := api.Manage(ctx, booking.ManageToken)
	if err != nil {
		t.Fatalf("manage request failed: %v", err)
	}
	testutil.AssertStatusCode(t, fetched, http.StatusOK)
	testutil.AssertContains(t, fetched, booking.ID)

	cancelled, err := api.ManageCancel(ctx, booking.ManageToken)
	if err != nil {
		t.Fatalf("manage cancel request failed: %v", err)
	}
	testutil.AssertStatusCode(t, cancelled, http.StatusNoContent)

	tampered, err := api.Manage(ctx, booking.ManageToken+"x")
	if err != nil {
		t.Fatalf("manage request failed: %v", err)
	}
	testutil.AssertStatusCode(t, tampered, http.StatusUnauthorized)
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })

	// Deliberately no admin token.
	api := client.NewBookingClient(env.ServerURL)
	if err := api.WaitForHealthy(testutil.DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("bookings service not healthy: %v", err)
	}

	resp, err := api.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}
