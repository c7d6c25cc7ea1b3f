package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kycflow/internal/errors"
	"kycflow/internal/requestid"
	"kycflow/ports"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Client relays JSON payloads to downstream services over HTTP. It neither retries
// nor sets its own timeout; cancellation comes from the caller's context.
type Client struct {
	httpClient *http.Client
}

var _ ports.Forwarder = (*Client)(nil)

// NewClient wraps httpClient, or a zero-value client when nil
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// PostJSON marshals payload and posts it to url
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}) (*ports.ForwardResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.ExternalServiceError(url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("[Forward] request failed")
		return nil, errors.ExternalServiceError(url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(url, err)
	}

	log.Debug().Msgf("[Forward] POST %s -> %d in %v", url, resp.StatusCode, time.Since(startTime))
	return &ports.ForwardResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// PostForObject posts payload and requires a 2xx answer carrying a JSON object
func PostForObject(ctx context.Context, f ports.Forwarder, url string, payload interface{}) (*ports.ForwardResponse, map[string]interface{}, error) {
	resp, err := f.PostJSON(ctx, url, payload)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Success() {
		return resp, nil, errors.ExternalServiceError(url, fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	parsed := gjson.ParseBytes(resp.Body)
	if !parsed.IsObject() {
		return resp, nil, errors.ExternalServiceError(url, fmt.Errorf("response is not a JSON object"))
	}
	var object map[string]interface{}
	if err := json.Unmarshal(resp.Body, &object); err != nil {
		return resp, nil, errors.ExternalServiceError(url, err)
	}
	return resp, object, nil
}
