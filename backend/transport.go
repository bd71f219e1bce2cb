package backend

import (
	"net"
	"net/http"
	"net/url"
)

// ConfigureTransport applies the connect timeout, read timeout and proxy of
// cfg to tr. endpoint is the service endpoint, used to honor proxy bypass
// lists; it may be empty.
func ConfigureTransport(tr *http.Transport, cfg Config, endpoint string) {
	if cfg.ReadTimeout > 0 {
		tr.ResponseHeaderTimeout = cfg.ReadTimeout
	}
	if cfg.ConnectTimeout > 0 {
		dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
		tr.DialContext = dialer.DialContext
		tr.TLSHandshakeTimeout = cfg.ConnectTimeout
	}
	if cfg.Proxy == nil || cfg.Proxy.Host == "" {
		return
	}

	proxyURL := cfg.Proxy.URL()
	proxy := cfg.Proxy
	tr.Proxy = func(req *http.Request) (*url.URL, error) {
		if proxy.Bypass(req.URL.Hostname()) {
			return nil, nil
		}
		return proxyURL, nil
	}
	if endpoint != "" {
		if u, err := url.Parse(endpoint); err == nil && proxy.Bypass(u.Hostname()) {
			tr.Proxy = nil
		}
	}
}
