// Package lenco is a payments.Gateway backed by the Lenco v2 HTTP API.
package lenco

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikemtdev/career-lift/internal/payments"
)

const (
	DefaultBaseURL = "https://api.lenco.co/v2"
	defaultTimeout = 30 * time.Second
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("LENCO_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type initializeRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number,omitempty"`
	Reference   string  `json:"reference"`
	CallbackURL string  `json:"callback_url"`
}

type envelope[T any] struct {
	Status  any    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeData struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

type verifyData struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	PaidAt    string  `json:"paid_at"`
}

// Initialize opens a mobile money or card charge. Amounts are sent in major
// currency units.
func (c *Client) Initialize(ctx context.Context, req payments.ChargeRequest) (payments.Charge, error) {
	path := "/payments/card/initialize"
	body := initializeRequest{
		Amount:      float64(req.Amount) / 100,
		Currency:    req.Currency,
		Email:       req.Email,
		Name:        req.Name,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	}
	if req.Method == payments.MethodMobileMoney {
		path = "/payments/mobile-money/initialize"
		body.PhoneNumber = req.PhoneNumber
	}

	var out envelope[initializeData]
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return payments.Charge{}, err
	}
	return payments.Charge{AuthorizationURL: out.Data.AuthorizationURL, AccessCode: out.Data.AccessCode}, nil
}

// Verify returns the provider status of reference.
func (c *Client) Verify(ctx context.Context, reference string) (string, error) {
	var out envelope[verifyData]
	if err := c.do(ctx, http.MethodGet, "/payments/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(out.Data.Status)), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("lenco request timeout: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var failure envelope[json.RawMessage]
		if json.Unmarshal(body, &failure) == nil && failure.Message != "" {
			return fmt.Errorf("lenco %s %s: %d %s", method, path, resp.StatusCode, failure.Message)
		}
		return fmt.Errorf("lenco %s %s: status %d", method, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("lenco response parse: %w", err)
	}
	return nil
}

var _ payments.Gateway = (*Client)(nil)
