package client

import (
	"context"
	"fmt"
	"net/http"
)

// SiteStats is the traffic summary exposed by the analytics service.
type SiteStats struct {
	Visitors  int64            `json:"visitors"`
	Pageviews int64            `json:"pageviews"`
	TopPages  map[string]int64 `json:"top_pages"`
}

type AnalyticsClient struct {
	http *HttpClient
	site string
}

func NewAnalyticsClient(baseURL, apiKey, site string) *AnalyticsClient {
	return &AnalyticsClient{
		http: NewHttpClient(baseURL).WithAPIKey(apiKey),
		site: site,
	}
}

func (c *AnalyticsClient) Stats(ctx context.Context, period string) (*SiteStats, error) {
	resp, err := c.http.GET(ctx, "/stats?site="+c.site+"&period="+period)
	if err != nil {
		return nil, fmt.Errorf("analytics stats: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics stats: %s", GetErrorMessage(resp))
	}

	var stats SiteStats
	if err := resp.DecodeJSON(&stats); err != nil {
		return nil, fmt.Errorf("analytics stats: decode: %w", err)
	}
	return &stats, nil
}
