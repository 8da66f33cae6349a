package client

import (
	"context"
	"fmt"
	"net/http"
)

// RendererClient talks to the HTML-to-PDF rendering service used for
// printable booking reports.
type RendererClient struct {
	http *HttpClient
}

func NewRendererClient(baseURL string) *RendererClient {
	return &RendererClient{http: NewHttpClient(baseURL)}
}

func (c *RendererClient) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	payload := struct {
		HTML string `json:"html"`
	}{HTML: html}

	resp, err := c.http.POST(ctx, "/render", payload)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer: %s", GetErrorMessage(resp))
	}
	return resp.Body, nil
}
