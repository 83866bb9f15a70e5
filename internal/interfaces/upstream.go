package interfaces

import (
	"context"
	"encoding/json"

	"gql-proxy-cache/internal/models"
)

//go:generate mockgen -package=mock -source=upstream.go -destination=mock/upstream.go

// Upstream forwards a GraphQL payload to the proxied API
type Upstream interface {
	// Fetch returns the upstream response body, compacted, or an error for
	// network failures, non-2xx statuses and non-JSON bodies
	Fetch(ctx context.Context, payload models.GraphQLPayload) (json.RawMessage, error)
}
