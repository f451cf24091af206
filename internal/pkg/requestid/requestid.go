// Package requestid carries a per-request correlation id through contexts,
// HTTP headers and gRPC metadata.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

const (
	// Header is the HTTP header chi's RequestID middleware reads.
	Header = "X-Request-Id"
	// MetadataKey is the gRPC metadata key (lower case on the wire).
	MetadataKey = "x-request-id"
)

// contextKey is unexported so no other package can collide with it.
type contextKey struct{}

// New returns a fresh random id.
func New() string {
	return uuid.NewString()
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the id stored in ctx, or "" when there is none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
