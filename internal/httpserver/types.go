package httpserver

// ErrorResponse is the body of every non-200 proxy reply
type ErrorResponse struct {
	Error string `json:"error"`
}
