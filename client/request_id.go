package client

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader correlates client calls with server logs.
const RequestIDHeader = "X-Request-Id"

// requestIDTransport stamps each request with a fresh id unless the caller
// set one.
type requestIDTransport struct{ base http.RoundTripper }

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set(RequestIDHeader, uuid.NewString())
	return t.base.RoundTrip(cloned)
}
