package tenant

import (
	"net"
	"strings"
)

// LocalMarker is the host label that marks local development hosts.
const LocalMarker = "localhost"

// Lookup is what a host name identifies: a tenant slug, a custom domain, or
// nothing. At most one of Slug and Domain is set.
type Lookup struct {
	Slug   string
	Domain string
}

// IsZero reports whether the host identified no tenant.
func (l Lookup) IsZero() bool {
	return l.Slug == "" && l.Domain == ""
}

// ParseHost maps a request host to a Lookup.
//
//	acme.localhost:3000  -> slug "acme"
//	shop.example.com     -> slug "shop"
//	example.com          -> domain "example.com"
//	localhost:3000       -> nothing
//
// Ports are stripped and the result is lowercased.
func ParseHost(host string) Lookup {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" || net.ParseIP(host) != nil {
		return Lookup{}
	}

	parts := strings.Split(host, ".")
	for _, p := range parts {
		if p == "" {
			return Lookup{}
		}
	}

	local := false
	for _, p := range parts[1:] {
		if p == LocalMarker {
			local = true
			break
		}
	}

	switch {
	case local:
		return Lookup{Slug: parts[0]}
	case len(parts) == 2:
		return Lookup{Domain: host}
	case len(parts) >= 3:
		return Lookup{Slug: parts[0]}
	}
	return Lookup{}
}
