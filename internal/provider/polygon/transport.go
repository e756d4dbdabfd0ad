package polygon

import (
	"net"
	"net/http"
	"time"
)

// baseTransportConfig returns the pooled HTTP transport shared by every request of a Client.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
}

// newHTTPClient creates the default HTTP client of a Client. Per-attempt deadlines
// come from the request context, so no client-wide Timeout is set.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(),
	}
}
