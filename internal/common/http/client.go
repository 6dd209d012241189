// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "github.com/ergutierz/SaturnClient/internal/common/errors"
)

// maxErrorBody caps how much of a failed response is kept in error details.
const maxErrorBody = 512

// Client is the process-wide transport, reused by every call of a run.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientFrom wraps an existing *http.Client, e.g. an httptest server client.
func NewClientFrom(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc}
}

// DoJSON sends payload (if non-nil) as a JSON body and returns the raw response
// body. Network failures and non-2xx statuses come back as TRANSPORT_FAULT
// errors; an unencodable payload is a SERIALIZATION_FAULT.
func (c *Client) DoJSON(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.NewSerializationFaultError("request body", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, apperrors.NewTransportFaultError(method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportFaultError(method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransportFaultError(method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := data
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, apperrors.NewUnexpectedStatusError(method, url, resp.StatusCode, string(snippet))
	}

	return data, nil
}
