package client

import (
	"context"
	"fmt"
	"net/http"
)

// Charge is a payment captured by the external payment provider.
type Charge struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
}

const ChargeStatusSucceeded = "succeeded"

type PaymentsClient struct {
	http *HttpClient
}

func NewPaymentsClient(baseURL, apiKey string) *PaymentsClient {
	return &PaymentsClient{
		http: NewHttpClient(baseURL).WithAPIKey(apiKey),
	}
}

// GetCharge fetches a charge by provider ID, used to verify webhook payloads
// against the provider rather than trusting the caller.
func (c *PaymentsClient) GetCharge(ctx context.Context, chargeID string) (*Charge, error) {
	resp, err := c.http.GET(ctx, "/charges/"+chargeID)
	if err != nil {
		return nil, fmt.Errorf("payments get charge: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payments get charge: %s", GetErrorMessage(resp))
	}

	var charge Charge
	if err := resp.DecodeJSON(&charge); err != nil {
		return nil, fmt.Errorf("payments get charge: decode: %w", err)
	}
	return &charge, nil
}
