package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hidetrade/pkg/apperr"
)

// TransferStatus is the surfaced state of a bank transfer.
type TransferStatus struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// TransferChecker polls the bank-transfer rail by opaque transfer id.
type TransferChecker interface {
	CheckTransfer(ctx context.Context, transferID string) (*TransferStatus, error)
}

// WiseClient polls the Wise API for transfer status. Tokens prefixed
// "test_" short-circuit to a synthetic funded status so integration
// tests stay hermetic.
type WiseClient struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewWiseClient(apiToken, baseURL string) *WiseClient {
	return &WiseClient{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *WiseClient) CheckTransfer(ctx context.Context, transferID string) (*TransferStatus, error) {
	if transferID == "" {
		return nil, apperr.NewValidation("transfer_id", "transfer id is required")
	}

	// Sandbox bypass keyed off the token prefix.
	if strings.HasPrefix(c.apiToken, "test_") {
		return &TransferStatus{TransferID: transferID, Status: "outgoing_payment_sent"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transfers/"+transferID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: transfer provider unreachable: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: transfer %s", apperr.ErrNotFound, transferID)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: transfer provider returned status %d", apperr.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode transfer status: %w", err)
	}

	return &TransferStatus{TransferID: transferID, Status: payload.Status}, nil
}
