package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"castlehire/pkg/model"
)

// BookingClient is a typed client for the bookings service, used by the
// integration suite.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) WithAdminToken(token string) *BookingClient {
	c.httpClient.WithAPIKey(token)
	return c
}

func (c *BookingClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings", body)
}

func (c *BookingClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, "/api/v1/bookings", rawBody)
}

func (c *BookingClient) Validate(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/validate", body)
}

func (c *BookingClient) Availability(ctx context.Context, castle, date, start, end string) (*Response, error) {
	q := url.Values{}
	q.Set("castle", castle)
	q.Set("date", date)
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	return c.httpClient.GET(ctx, "/api/v1/availability?"+q.Encode())
}

func (c *BookingClient) Quote(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/quotes", body)
}

func (c *BookingClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) Search(ctx context.Context, castle, status, fromDate, toDate string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if castle != "" {
		q.Set("castle", castle)
	}
	if status != "" {
		q.Set("status", status)
	}
	if fromDate != "" {
		q.Set("from", fromDate)
	}
	if toDate != "" {
		q.Set("to", toDate)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET(ctx, "/api/v1/bookings/search?"+q.Encode())
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/bookings/id/"+url.PathEscape(id), body)
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingClient) Confirm(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/confirm", nil)
}

func (c *BookingClient) Manage(ctx context.Context, token string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/manage/"+url.PathEscape(token))
}

func (c *BookingClient) ManageCancel(ctx context.Context, token string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/manage/"+url.PathEscape(token))
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking:\n%+v\n%s", resp.ToString(), err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeValidationResult(resp *Response) (*model.ValidationResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode validation wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result model.ValidationResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode validation result:\n%+v\n%s", resp.ToString(), err)
	}
	return &result, nil
}
