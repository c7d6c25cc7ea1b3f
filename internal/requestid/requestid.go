// Package requestid carries a per-request correlation id through contexts and outbound calls.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header the id travels in
const Header = "X-Request-ID"

type contextKey struct{}

// New returns a fresh request id
func New() string {
	return uuid.NewString()
}

// NewContext returns a copy of ctx carrying id
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the id stored in ctx, or ""
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
