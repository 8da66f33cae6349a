package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	jsoniter "github.com/json-iterator/go"

	"castlehire/pkg/client"
	"castlehire/pkg/kafka"
	"castlehire/pkg/logger"
	"castlehire/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MailerAPI is the slice of the mail collaborator the notifier needs.
type MailerAPI interface {
	Send(ctx context.Context, msg client.Message) error
}

// Notifier turns booking lifecycle events into customer emails. It is
// the message handler of the notifier service's Kafka consumer.
type Notifier struct {
	mailer        MailerAPI
	publicBaseURL string
	log           *logger.Logger
}

func New(mailer MailerAPI, publicBaseURL string, log *logger.Logger) *Notifier {
	return &Notifier{
		mailer:        mailer,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// Handle processes one booking event. Unknown event types are skipped
// without error: a newer producer must not poison the consumer. Mail
// transport failures are returned so the consumer's retry/DLQ path runs.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("undecodable booking event: %w", err)
	}
	if event.CustomerEmail == "" {
		return fmt.Errorf("booking event %s carries no customer email", event.BookingID)
	}

	var (
		subject string
		tmpl    *template.Template
	)
	switch event.Type {
	case model.EventBookingCreated:
		subject = fmt.Sprintf("Your castle booking for %s", event.Date)
		tmpl = createdTemplate
	case model.EventBookingConfirmed:
		subject = fmt.Sprintf("Booking confirmed for %s", event.Date)
		tmpl = confirmedTemplate
	case model.EventBookingCancelled:
		subject = fmt.Sprintf("Booking cancelled for %s", event.Date)
		tmpl = cancelledTemplate
	case model.EventBookingPaymentReceived:
		// The confirmed email covers the payment; no separate mail.
		return nil
	default:
		n.log.Warn("Skipping unknown booking event type", "event_type", event.Type, "booking_id", event.BookingID)
		return nil
	}

	html, err := n.render(tmpl, event)
	if err != nil {
		return fmt.Errorf("failed to render %s email: %w", event.Type, err)
	}

	if err := n.mailer.Send(ctx, client.Message{
		To:      event.CustomerEmail,
		Subject: subject,
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("failed to send %s email for booking %s: %w", event.Type, event.BookingID, err)
	}

	n.log.Info("Notification sent",
		"event_type", event.Type,
		"booking_id", event.BookingID,
		"to", event.CustomerEmail,
	)
	return nil
}

type emailData struct {
	model.BookingEvent
	ManageURL string
	Balance   float64
}

func (n *Notifier) render(tmpl *template.Template, event model.BookingEvent) (string, error) {
	data := emailData{BookingEvent: event, Balance: event.TotalPrice - event.Deposit}
	if event.ManageToken != "" {
		data.ManageURL = fmt.Sprintf("%s/manage/%s", n.publicBaseURL, event.ManageToken)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var createdTemplate = template.Must(template.New("created").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Thanks for booking <strong>{{.CastleName}}</strong> on {{.Date}} from {{.StartTime}} to {{.EndTime}}.</p>
<p>Your slot is held once we receive the deposit of <strong>&pound;{{printf "%.2f" .Deposit}}</strong>
(total hire &pound;{{printf "%.2f" .TotalPrice}}).</p>
{{if .ManageURL}}<p>View or cancel your booking any time: <a href="{{.ManageURL}}">{{.ManageURL}}</a></p>{{end}}
<p>The CastleHire team</p>`))

var confirmedTemplate = template.Must(template.New("confirmed").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Your booking of <strong>{{.CastleName}}</strong> on {{.Date}} ({{.StartTime}} to {{.EndTime}}) is confirmed.</p>
<p>Deposit received: &pound;{{printf "%.2f" .Deposit}}. Balance of
&pound;{{printf "%.2f" .Balance}} is due on delivery.</p>
{{if .ManageURL}}<p>Manage your booking: <a href="{{.ManageURL}}">{{.ManageURL}}</a></p>{{end}}
<p>The CastleHire team</p>`))

var cancelledTemplate = template.Must(template.New("cancelled").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Your booking of <strong>{{.CastleName}}</strong> on {{.Date}} has been cancelled.</p>
<p>If you paid a deposit we will be in touch about your refund.</p>
<p>The CastleHire team</p>`))
