package client

import (
	"context"
	"fmt"
	"net/http"

	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/middleware"
)

// SessionsClient validates admin session tokens against the auth service.
// It satisfies middleware.SessionValidator.
type SessionsClient struct {
	http *HttpClient
}

func NewSessionsClient(baseURL string) *SessionsClient {
	return &SessionsClient{http: NewHttpClient(baseURL)}
}

func (c *SessionsClient) Validate(ctx context.Context, token string) (*middleware.Session, error) {
	payload := struct {
		Token string `json:"token"`
	}{Token: token}

	resp, err := c.http.POST(ctx, "/sessions/validate", payload)
	if err != nil {
		return nil, fmt.Errorf("sessions validate: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperrors.Unauthorized("session token rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sessions validate: %s", GetErrorMessage(resp))
	}

	var session middleware.Session
	if err := resp.DecodeJSON(&session); err != nil {
		return nil, fmt.Errorf("sessions validate: decode: %w", err)
	}
	return &session, nil
}
