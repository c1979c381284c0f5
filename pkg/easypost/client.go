package easypost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shiplabel/pkg/logger"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production EasyPost API endpoint.
const DefaultBaseURL = "https://api.easypost.com/v2"

// APIError is a non-2xx response from EasyPost. Transport failures are
// returned as plain wrapped errors, not as APIError.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("easypost: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the EasyPost REST API. Each call is at-most-once: there are
// no retries and no idempotency keys.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the production API.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint. Tests use
// this to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateShipment creates the from/to address, parcel and shipment resources
// upstream and returns the shipment with its quoted rates.
func (c *Client) CreateShipment(ctx context.Context, from, to Address, parcel Parcel) (*Shipment, error) {
	fromCreated, err := c.createAddress(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("easypost.CreateShipment: from address: %w", err)
	}

	toCreated, err := c.createAddress(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("easypost.CreateShipment: to address: %w", err)
	}

	parcelCreated, err := c.createParcel(ctx, parcel)
	if err != nil {
		return nil, fmt.Errorf("easypost.CreateShipment: parcel: %w", err)
	}

	payload := map[string]interface{}{
		"shipment": map[string]interface{}{
			"from_address": map[string]string{"id": fromCreated.ID},
			"to_address":   map[string]string{"id": toCreated.ID},
			"parcel":       map[string]string{"id": parcelCreated.ID},
		},
	}

	var shipment Shipment
	if err := c.post(ctx, "/shipments", payload, &shipment); err != nil {
		return nil, fmt.Errorf("easypost.CreateShipment: %w", err)
	}

	logger.Get().Debug("EasyPost shipment created",
		zap.String("shipment_id", shipment.ID),
		zap.Int("rates", len(shipment.Rates)),
	)
	return &shipment, nil
}

// BuyShipment purchases the given rate. Fails with APIError if the rate is no
// longer purchasable.
func (c *Client) BuyShipment(ctx context.Context, shipmentID string, rate Rate) (*Shipment, error) {
	payload := map[string]interface{}{
		"rate": map[string]string{"id": rate.ID},
	}

	var shipment Shipment
	if err := c.post(ctx, "/shipments/"+shipmentID+"/buy", payload, &shipment); err != nil {
		return nil, fmt.Errorf("easypost.BuyShipment: %w", err)
	}

	logger.Get().Info("EasyPost label purchased",
		zap.String("shipment_id", shipment.ID),
		zap.String("tracking_code", shipment.TrackingCode),
	)
	return &shipment, nil
}

// RefundShipment requests a refund. A policy rejection from EasyPost (4xx) is
// reported as (false, nil); only transport or auth failures return an error.
func (c *Client) RefundShipment(ctx context.Context, shipmentID string) (bool, error) {
	var shipment Shipment
	err := c.post(ctx, "/shipments/"+shipmentID+"/refund", nil, &shipment)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != http.StatusUnauthorized && apiErr.StatusCode < 500 {
			logger.Get().Info("EasyPost refund rejected",
				zap.String("shipment_id", shipmentID),
				zap.String("reason", apiErr.Message),
			)
			return false, nil
		}
		return false, fmt.Errorf("easypost.RefundShipment: %w", err)
	}
	return true, nil
}

func (c *Client) createAddress(ctx context.Context, addr Address) (*Address, error) {
	var created Address
	if err := c.post(ctx, "/addresses", map[string]interface{}{"address": addr}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) createParcel(ctx context.Context, parcel Parcel) (*Parcel, error) {
	var created Parcel
	if err := c.post(ctx, "/parcels", map[string]interface{}{"parcel": parcel}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// post sends a JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// EasyPost uses HTTP basic auth with the API key as username.
	encoded := base64.StdEncoding.EncodeToString([]byte(c.apiKey + ":"))
	req.Header.Set("Authorization", "Basic "+encoded)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Get().Debug("EasyPost request completed",
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeAPIErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIErrorMessage extracts EasyPost's {"error": {"message": ...}} body,
// falling back to the raw text.
func decodeAPIErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "upstream request failed"
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(raw)
}
