package interfaces

import "gql-proxy-cache/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes requests into deterministic cache keys
type KeyBuilder interface {
	Build(req *models.QueryRequest) (string, error)
}
