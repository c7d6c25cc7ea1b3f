package ports

import (
	"context"

	"github.com/tidwall/gjson"
)

// Forwarder posts JSON payloads to downstream services
type Forwarder interface {
	// PostJSON sends payload as a JSON body. A non-nil error means no response was received;
	// any HTTP status, including failures, comes back in the response.
	PostJSON(ctx context.Context, url string, payload interface{}) (*ForwardResponse, error)
}

// ForwardResponse is a downstream answer
type ForwardResponse struct {
	StatusCode int
	Body       []byte
}

// Success reports a 2xx status
func (r *ForwardResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Field looks up a top-level or dotted path in the JSON body
func (r *ForwardResponse) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}
