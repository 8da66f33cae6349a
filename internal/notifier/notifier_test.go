package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"castlehire/pkg/client"
	"castlehire/pkg/kafka"
	"castlehire/pkg/logger"
	"castlehire/pkg/model"
)

// ──────────────────────────── mocks ────────────────────────────

type mockMailer struct {
	sendFunc func(ctx context.Context, msg client.Message) error
	sent     []client.Message
}

func (m *mockMailer) Send(ctx context.Context, msg client.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func testNotifier(mailer *mockMailer) *Notifier {
	log := logger.New(logger.Config{Level: "error", Format: logger.FormatJSON, Service: "notifier-test"})
	return New(mailer, "https://castlehire.example", log)
}

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{Key: event.BookingID, Value: value}
}

func testEvent(eventType string) model.BookingEvent {
	return model.BookingEvent{
		Type:          eventType,
		BookingID:     "65f000000000000000000001",
		CastleName:    "Jungle Adventure",
		CustomerName:  "Priya Shah",
		CustomerEmail: "priya@example.com",
		Date:          "2024-07-04",
		StartTime:     "12:00",
		EndTime:       "15:00",
		TotalPrice:    80,
		Deposit:       20,
		ManageToken:   "tok_abc123",
		OccurredAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ──────────────────────────── tests ────────────────────────────

func TestHandleCreatedSendsConfirmationWithManageLink(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	if err := n.Handle(context.Background(), eventMessage(t, testEvent(model.EventBookingCreated))); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "priya@example.com" {
		t.Errorf("To = %q, want priya@example.com", msg.To)
	}
	if !strings.Contains(msg.Subject, "2024-07-04") {
		t.Errorf("Subject = %q, want it to name the hire date", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "20.00") {
		t.Errorf("body should state the deposit amount, got: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "https://castlehire.example/manage/tok_abc123") {
		t.Errorf("body should carry the manage link, got: %s", msg.HTML)
	}
}

func TestHandleConfirmedStatesBalance(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	if err := n.Handle(context.Background(), eventMessage(t, testEvent(model.EventBookingConfirmed))); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	msg := mailer.sent[0]
	if !strings.Contains(msg.Subject, "confirmed") {
		t.Errorf("Subject = %q, want a confirmation subject", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "60.00") {
		t.Errorf("body should state the outstanding balance, got: %s", msg.HTML)
	}
}

func TestHandleCancelled(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	if err := n.Handle(context.Background(), eventMessage(t, testEvent(model.EventBookingCancelled))); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	msg := mailer.sent[0]
	if !strings.Contains(msg.Subject, "cancelled") {
		t.Errorf("Subject = %q, want a cancellation subject", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Jungle Adventure") {
		t.Errorf("body should name the castle, got: %s", msg.HTML)
	}
}

func TestHandleCreatedWithoutManageToken(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	event := testEvent(model.EventBookingCreated)
	event.ManageToken = ""

	if err := n.Handle(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if strings.Contains(mailer.sent[0].HTML, "/manage/") {
		t.Errorf("body should omit the manage link when there is no token, got: %s", mailer.sent[0].HTML)
	}
}

func TestHandleSkipsPaymentReceived(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	if err := n.Handle(context.Background(), eventMessage(t, testEvent(model.EventBookingPaymentReceived))); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(mailer.sent))
	}
}

func TestHandleSkipsUnknownEventType(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	if err := n.Handle(context.Background(), eventMessage(t, testEvent("booking.exploded"))); err != nil {
		t.Fatalf("unknown event types must not error, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(mailer.sent))
	}
}

func TestHandleUndecodablePayload(t *testing.T) {
	n := testNotifier(&mockMailer{})

	err := n.Handle(context.Background(), kafka.Message{Value: []byte("not json")})
	if err == nil {
		t.Fatal("expected an error for an undecodable payload")
	}
}

func TestHandleMissingRecipient(t *testing.T) {
	mailer := &mockMailer{}
	n := testNotifier(mailer)

	event := testEvent(model.EventBookingCreated)
	event.CustomerEmail = ""

	if err := n.Handle(context.Background(), eventMessage(t, event)); err == nil {
		t.Fatal("expected an error when the event has no recipient")
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(mailer.sent))
	}
}

func TestHandleReturnsMailerFailure(t *testing.T) {
	mailer := &mockMailer{
		sendFunc: func(context.Context, client.Message) error {
			return errors.New("smtp relay down")
		},
	}
	n := testNotifier(mailer)

	err := n.Handle(context.Background(), eventMessage(t, testEvent(model.EventBookingCreated)))
	if err == nil {
		t.Fatal("mailer failures must propagate so the consumer retries")
	}
	if !strings.Contains(err.Error(), "smtp relay down") {
		t.Errorf("error should wrap the mailer failure, got %v", err)
	}
}
