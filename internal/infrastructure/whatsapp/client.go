package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/otp-dispatch/internal/config"
	"github.com/otp-dispatch/internal/domain"
)

// Client posts template messages to the WhatsApp Cloud API.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint:    Endpoint(cfg.APIBaseURL, cfg.PhoneNumberID),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// Endpoint is the messages URL for a business phone number.
func Endpoint(baseURL, phoneNumberID string) string {
	return fmt.Sprintf("%s/%s/messages", strings.TrimRight(baseURL, "/"), phoneNumberID)
}

// providerResponse covers the parts of a Graph API answer worth reporting.
type providerResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send performs exactly one POST. Any response is returned as-is, whatever its
// status; an error means no response was obtained.
func (c *Client) Send(ctx context.Context, req *domain.DispatchRequest) (*domain.DispatchResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", domain.ErrDispatchFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrDispatchFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrDispatchFailed, err)
	}

	res := &domain.DispatchResult{StatusCode: resp.StatusCode, Body: body}
	var pr providerResponse
	if json.Unmarshal(body, &pr) == nil {
		if len(pr.Messages) > 0 {
			res.MessageID = pr.Messages[0].ID
		}
		if pr.Error != nil {
			res.ProviderError = pr.Error.Message
		}
	}
	return res, nil
}
