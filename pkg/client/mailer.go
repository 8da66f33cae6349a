package client

import (
	"context"
	"fmt"
	"net/http"
)

// Message is an outbound transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type MailerClient struct {
	http *HttpClient
	from string
}

func NewMailerClient(baseURL, apiKey, from string) *MailerClient {
	return &MailerClient{
		http: NewHttpClient(baseURL).WithAPIKey(apiKey),
		from: from,
	}
}

func (c *MailerClient) Send(ctx context.Context, msg Message) error {
	payload := struct {
		Message
		From string `json:"from"`
	}{Message: msg, From: c.from}

	resp, err := c.http.POST(ctx, "/send", payload)
	if err != nil {
		return fmt.Errorf("mailer send: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailer send: %s", GetErrorMessage(resp))
	}
	return nil
}
