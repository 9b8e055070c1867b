package clients

import (
	"net"
	"net/http"
	"time"
)

// HTTP is the shared client for upstream services.
type HTTP struct{ c *http.Client }

// NewHTTP builds a client whose requests give up after timeout. Zero means
// no overall limit beyond the transport's own.
func NewHTTP(timeout time.Duration) *HTTP {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: time.Minute,
		}).DialContext,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       time.Minute,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Minute,
	}
	return &HTTP{
		c: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
}
