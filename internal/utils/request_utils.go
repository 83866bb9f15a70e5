package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gql-proxy-cache/internal/models"
)

// ErrInvalidBody is returned when the request body is not a JSON object of the expected shape
var ErrInvalidBody = errors.New("invalid request body")

// ParseQueryRequest decodes a GraphQL proxy request body.
// An empty body yields an empty request so the caller reports the missing query.
// Numbers in variables are kept as json.Number.
func ParseQueryRequest(body io.Reader) (*models.QueryRequest, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var request models.QueryRequest
	if err := decoder.Decode(&request); err != nil {
		if errors.Is(err, io.EOF) {
			return &request, nil
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	// Only whitespace may follow the object
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidBody)
	}

	return &request, nil
}
