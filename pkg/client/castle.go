package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"castlehire/pkg/model"
)

// CastleClient is a typed client for the castles service, used by the
// integration suite.
type CastleClient struct {
	httpClient *HttpClient
}

func NewCastleClient(baseURL string) *CastleClient {
	return &CastleClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *CastleClient) WithAdminToken(token string) *CastleClient {
	c.httpClient.WithAPIKey(token)
	return c
}

func (c *CastleClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/castles", body)
}

func (c *CastleClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/castles?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *CastleClient) GetBySlug(ctx context.Context, slug string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/castles/slug/"+url.PathEscape(slug))
}

func (c *CastleClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/castles/id/"+url.PathEscape(id))
}

func (c *CastleClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/castles/id/"+url.PathEscape(id), body)
}

func (c *CastleClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/castles/id/"+url.PathEscape(id))
}

func (c *CastleClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *CastleClient) DecodeCastle(resp *Response) (*model.Castle, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode castle wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var castle model.Castle
	if err := json.Unmarshal(wrapper.Data, &castle); err != nil {
		return nil, fmt.Errorf("could not decode castle:\n%+v\n%s", resp.ToString(), err)
	}
	return &castle, nil
}
