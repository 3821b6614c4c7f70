// Package httpclient builds timeout-bounded HTTP clients for outbound calls.
package httpclient

import (
	"net/http"
	"time"
)

// New returns an *http.Client with an absolute per-request timeout. Used for
// the model provider so a hung completion call cannot pin a request forever.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
