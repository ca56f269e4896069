package paymentControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	"github.com/kimsinwoo/lupl-backend/config"
)

// GatewayClient talks to the Toss-style payment API: confirm settles a
// payment session the storefront opened, cancel refunds a settled one.
// Authentication is HTTP Basic with the server-held secret key and an empty
// password.
type GatewayClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewGatewayClient(cfg *config.Config) *GatewayClient {
	return &GatewayClient{
		baseURL:   cfg.TossBaseURL,
		secretKey: cfg.TossSecretKey,
		http:      &http.Client{Timeout: cfg.GatewayTimeout},
	}
}

type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm calls the gateway's confirm API. gatewayOrderID must be the order
// identifier exactly as originally presented to the gateway (the display
// order number), not the internal id.
func (g *GatewayClient) Confirm(ctx context.Context, paymentKey, gatewayOrderID string, amount float64) (json.RawMessage, error) {
	body := map[string]interface{}{
		"paymentKey": paymentKey,
		"orderId":    gatewayOrderID,
		"amount":     amount,
	}
	return g.post(ctx, g.baseURL+"/v1/payments/confirm", body)
}

// Cancel calls the gateway's cancel/refund API for a payment key. It does
// not touch any order; callers drive the order transition separately.
func (g *GatewayClient) Cancel(ctx context.Context, paymentKey, reason string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"cancelReason": reason,
	}
	return g.post(ctx, g.baseURL+"/v1/payments/"+paymentKey+"/cancel", body)
}

func (g *GatewayClient) post(ctx context.Context, url string, body interface{}) (json.RawMessage, error) {
	if g.secretKey == "" {
		return nil, fmt.Errorf("payment gateway secret key is not configured")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.secretKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayTimeout, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGatewayTimeout, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gerr gatewayError
		if jsonErr := json.Unmarshal(raw, &gerr); jsonErr == nil && gerr.Message != "" {
			return nil, apperrors.WithMessage(apperrors.ErrGatewayRejected, "%s", gerr.Message)
		}
		return nil, apperrors.WithMessage(apperrors.ErrGatewayRejected,
			"gateway returned status %d", resp.StatusCode)
	}
	return json.RawMessage(raw), nil
}
