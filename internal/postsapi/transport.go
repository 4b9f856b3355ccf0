package postsapi

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vaughan-dsouza/postboard/internal/utils"
)

const (
	dialTimeout    = 10 * time.Second
	defaultTimeout = 30 * time.Second

	maxIdleConns    = 25
	idleConnTimeout = 90 * time.Second
)

// RequestIDHeader is set on every outgoing request.
const RequestIDHeader = "X-Request-Id"

// requestIDTransport stamps requests with JSON headers and a request id,
// reusing the id of the inbound request when the context carries one.
type requestIDTransport struct {
	underlyingTransport http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	if req.Header.Get(RequestIDHeader) == "" {
		id := utils.RequestID(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(RequestIDHeader, id)
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	return t.underlyingTransport.RoundTrip(req)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	netDialer := &net.Dialer{
		Timeout: dialTimeout,
	}
	return &http.Client{
		Transport: &requestIDTransport{
			underlyingTransport: &http.Transport{
				DialContext:         netDialer.DialContext,
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConns,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
		Timeout: timeout,
	}
}
