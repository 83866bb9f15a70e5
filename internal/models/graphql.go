package models

import (
	"bytes"
	"encoding/json"
)

// QueryRequest represents an incoming GraphQL proxy request
type QueryRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// Payload returns the part of the request that is forwarded upstream and hashed into the cache key
func (r *QueryRequest) Payload() GraphQLPayload {
	return GraphQLPayload{
		Query:     r.Query,
		Variables: r.Variables,
	}
}

// GraphQLPayload is the {query, variables} body sent to the upstream
type GraphQLPayload struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Marshal serializes the payload without HTML escaping and without a trailing newline.
// Map keys come out sorted, so the result does not depend on the client's key order.
// U+2028 and U+2029 are written raw, the way JavaScript's JSON.stringify writes them.
func (p GraphQLPayload) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(p); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

var (
	lineSeparatorEscape      = []byte(`\u2028`)
	paragraphSeparatorEscape = []byte(`\u2029`)
)

// unescapeLineSeparators replaces the \u2028 and \u2029 escapes emitted by encoding/json
// with the raw characters. An escape preceded by an odd run of backslashes is
// literal text and is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, lineSeparatorEscape) && !bytes.Contains(data, paragraphSeparatorEscape) {
		return data
	}

	out := make([]byte, 0, len(data))
	backslashes := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\\' && backslashes%2 == 0 && i+6 <= len(data) {
			switch {
			case bytes.Equal(data[i:i+6], lineSeparatorEscape):
				out = append(out, "\u2028"...)
				i += 5
				backslashes = 0
				continue
			case bytes.Equal(data[i:i+6], paragraphSeparatorEscape):
				out = append(out, "\u2029"...)
				i += 5
				backslashes = 0
				continue
			}
		}
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out = append(out, c)
	}
	return out
}

// ProxyResponse is the body returned to the client
type ProxyResponse struct {
	Cached bool            `json:"cached"`
	Data   json.RawMessage `json:"data"`

	Status CacheStatus `json:"-"`
}
