// Package wagontypes provides shared type definitions for wagons and their backends.
package wagontypes

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Repository describes the remote location a session operates against.
// For object storage the host names the bucket and the base directory
// names the prefix artifacts live under.
type Repository struct {
	// ID is the repository identifier assigned by the caller
	ID string

	// URL is the raw repository URL the repository was parsed from
	URL string

	// Protocol is the URL scheme, used to select a wagon implementation
	Protocol string

	// Host is the bucket name
	Host string

	// Basedir is the path component of the URL; it may be empty
	Basedir string

	// Username and Password are credentials embedded in the URL authority
	Username string
	Password string

	// Permissions are optional permission settings for the repository
	Permissions *Permissions
}

// ParseRepository parses a repository URL of the form
// scheme://[user[:password]@]bucket[/base/dir].
func ParseRepository(id, rawURL string) (*Repository, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse repository url: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("repository url %q has no scheme", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("repository url %q has no bucket", rawURL)
	}

	repo := &Repository{
		ID:       id,
		URL:      rawURL,
		Protocol: strings.ToLower(u.Scheme),
		Host:     u.Hostname(),
		Basedir:  u.Path,
	}
	if u.User != nil {
		repo.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			repo.Password = pw
		}
	}
	return repo, nil
}

// HasBasedir reports whether a base directory is configured.
func (r *Repository) HasBasedir() bool {
	return r != nil && r.Basedir != ""
}

// Permissions holds permission settings applied to a repository.
type Permissions struct {
	Group         string
	FileMode      string
	DirectoryMode string
}

// AuthInfo carries the identity supplied by the caller. For object storage the
// user name is the access key and the password is the secret key.
type AuthInfo struct {
	UserName     string
	Password     string
	SessionToken string
}

// HasIdentity reports whether an explicit identity is present.
func (a *AuthInfo) HasIdentity() bool {
	return a != nil && a.UserName != ""
}

// ProxyInfo describes an HTTP proxy.
type ProxyInfo struct {
	// Type is the protocol the proxy serves (e.g., "http", "https")
	Type string

	Host     string
	Port     int
	UserName string
	Password string

	// NonProxyHosts is a "|" separated list of hosts that bypass the proxy.
	// A leading "*" matches any prefix.
	NonProxyHosts string
}

// URL renders the proxy as a URL suitable for http.ProxyURL.
func (p *ProxyInfo) URL() *url.URL {
	scheme := p.Type
	if scheme == "" {
		scheme = "http"
	}
	host := p.Host
	if p.Port > 0 {
		host = fmt.Sprintf("%s:%d", p.Host, p.Port)
	}
	u := &url.URL{Scheme: strings.ToLower(scheme), Host: host}
	if p.UserName != "" {
		u.User = url.UserPassword(p.UserName, p.Password)
	}
	return u
}

// Bypass reports whether host is listed in NonProxyHosts.
func (p *ProxyInfo) Bypass(host string) bool {
	if p == nil || p.NonProxyHosts == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, pattern := range strings.Split(p.NonProxyHosts, "|") {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
			continue
		case strings.HasPrefix(pattern, "*"):
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
		case pattern == host:
			return true
		}
	}
	return false
}

// ProxyInfoProvider resolves the proxy to use for a protocol.
type ProxyInfoProvider interface {
	// ProxyInfo returns the proxy for protocol, or nil for a direct connection.
	// An empty protocol asks for the default proxy.
	ProxyInfo(protocol string) *ProxyInfo
}

// StaticProxy returns a provider that answers with proxy for an empty protocol
// or one matching proxy.Type, and nil otherwise.
func StaticProxy(proxy *ProxyInfo) ProxyInfoProvider {
	return staticProxy{proxy: proxy}
}

type staticProxy struct {
	proxy *ProxyInfo
}

func (s staticProxy) ProxyInfo(protocol string) *ProxyInfo {
	if protocol == "" || s.proxy == nil || strings.EqualFold(protocol, s.proxy.Type) {
		return s.proxy
	}
	return nil
}

// Resource is a single named artifact being transferred. It is a value,
// constructed fresh for every transfer call.
type Resource struct {
	// Name is the path relative to the repository base directory
	Name string

	// ContentLength is the size in bytes, or -1 when unknown
	ContentLength int64

	// LastModified is the modification time, zero when unknown
	LastModified time.Time
}

// NewResource returns a Resource with unknown length and modification time.
func NewResource(name string) Resource {
	return Resource{Name: name, ContentLength: -1}
}
