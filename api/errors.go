package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// configuration errors
var (
	ErrInvalidHost       = errors.New("invalid indexer host")
	ErrMissingAPIKey     = errors.New("api key is required")
	ErrPlaceholderAPIKey = errors.New("api key is the built-in placeholder; supply a real key")
	ErrInvalidPolicy     = errors.New("max attempts must be at least 1")
)

// ErrorKind classifies a failed call
type ErrorKind int

const (
	KindUnknown ErrorKind = iota // failed before a request was dispatched
	KindNetwork                  // request sent, no response
	KindServer                   // server answered with a non-2xx status
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ServerError is returned when the indexer answers with a non-2xx status.
// Its message is the JSON serialization of the response body.
type ServerError struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

func (e *ServerError) Error() string {
	return string(serializeBody(e.Body))
}

// serializeBody renders a response body as JSON. Bodies that are not valid
// JSON are serialized as a JSON string.
func serializeBody(body []byte) []byte {
	var buf bytes.Buffer
	if json.Valid(body) && json.Compact(&buf, body) == nil {
		return buf.Bytes()
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

// NetworkError is returned when a request went out but no response came back
// (timeout, connection reset, DNS failure).
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Classify reports which kind of failure err is.
func Classify(err error) ErrorKind {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return KindServer
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindUnknown
}
