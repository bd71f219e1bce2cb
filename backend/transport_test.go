package backend

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

func TestConfigureTransport_Timeouts(t *testing.T) {
	tr := &http.Transport{}
	ConfigureTransport(tr, Config{ConnectTimeout: 5 * time.Second, ReadTimeout: 30 * time.Second}, "")

	assert.Equal(t, 30*time.Second, tr.ResponseHeaderTimeout)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.NotNil(t, tr.DialContext)
	assert.Nil(t, tr.Proxy)
}

func TestConfigureTransport_Proxy(t *testing.T) {
	tr := &http.Transport{}
	cfg := Config{Proxy: &wagontypes.ProxyInfo{
		Type:          "http",
		Host:          "proxy.local",
		Port:          3128,
		NonProxyHosts: "*.internal",
	}}
	ConfigureTransport(tr, cfg, "")
	require.NotNil(t, tr.Proxy)

	external := &http.Request{URL: &url.URL{Scheme: "https", Host: "s3.amazonaws.com"}}
	got, err := tr.Proxy(external)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local:3128", got.String())

	internal := &http.Request{URL: &url.URL{Scheme: "http", Host: "minio.internal:9000"}}
	got, err = tr.Proxy(internal)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfigureTransport_EndpointBypassesProxy(t *testing.T) {
	tr := &http.Transport{}
	cfg := Config{Proxy: &wagontypes.ProxyInfo{Host: "proxy.local", NonProxyHosts: "localhost"}}
	ConfigureTransport(tr, cfg, "http://localhost:4566")

	assert.Nil(t, tr.Proxy)
}
