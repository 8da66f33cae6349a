package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CalendarEvent mirrors the event shape of the external calendar service.
// Start and End are RFC 3339 timestamps unless AllDay is set, in which
// case they carry bare dates.
type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
	ColorID     string `json:"color_id,omitempty"`
}

type CalendarClient struct {
	http *HttpClient
}

func NewCalendarClient(baseURL, apiKey string) *CalendarClient {
	return &CalendarClient{
		http: NewHttpClient(baseURL).WithAPIKey(apiKey),
	}
}

// ListEvents returns all events whose window intersects [from, to].
func (c *CalendarClient) ListEvents(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	query := url.Values{}
	query.Set("from", from.Format(time.RFC3339))
	query.Set("to", to.Format(time.RFC3339))

	resp, err := c.http.GET(ctx, "/events?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("calendar list events: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar list events: %s", GetErrorMessage(resp))
	}

	var events []CalendarEvent
	if err := resp.DecodeJSON(&events); err != nil {
		return nil, fmt.Errorf("calendar list events: decode: %w", err)
	}
	return events, nil
}

// CreateEvent creates an event and returns its assigned ID.
func (c *CalendarClient) CreateEvent(ctx context.Context, event CalendarEvent) (string, error) {
	resp, err := c.http.POST(ctx, "/events", event)
	if err != nil {
		return "", fmt.Errorf("calendar create event: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar create event: %s", GetErrorMessage(resp))
	}

	var created CalendarEvent
	if err := resp.DecodeJSON(&created); err != nil {
		return "", fmt.Errorf("calendar create event: decode: %w", err)
	}
	return created.ID, nil
}

func (c *CalendarClient) UpdateEvent(ctx context.Context, eventID string, event CalendarEvent) error {
	resp, err := c.http.PATCH(ctx, "/events/"+eventID, event)
	if err != nil {
		return fmt.Errorf("calendar update event: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("calendar update event: %s", GetErrorMessage(resp))
	}
	return nil
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	resp, err := c.http.DELETE(ctx, "/events/"+eventID)
	if err != nil {
		return fmt.Errorf("calendar delete event: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("calendar delete event: %s", GetErrorMessage(resp))
	}
	return nil
}
