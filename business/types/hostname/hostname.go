// Package hostname represents a normalized request host in the system.
package hostname

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// portRegEx matches a valid port value after the colon. Anything else
// after a colon makes the whole host invalid.
var portRegEx = regexp.MustCompile(`^\d{1,5}$`)

// Hostname represents a host that has been lowercased, stripped of any
// port, and converted to its ASCII (punycode) form. Two requests for the
// same site always produce the same Hostname no matter how the client
// spelled the Host header.
type Hostname struct {
	value string
}

// Parse parses the raw host header value and returns a normalized
// Hostname. Values carrying a scheme, whitespace, or path separators are
// rejected rather than repaired.
func Parse(value string) (Hostname, error) {
	host := strings.TrimSpace(value)
	if host == "" {
		return Hostname{}, fmt.Errorf("empty host")
	}

	if strings.Contains(host, "://") {
		return Hostname{}, fmt.Errorf("host %q contains a scheme", value)
	}

	if strings.ContainsAny(host, "/ \t\\") {
		return Hostname{}, fmt.Errorf("invalid host %q", value)
	}

	if i := strings.Index(host, ":"); i != -1 {
		if !portRegEx.MatchString(host[i+1:]) {
			return Hostname{}, fmt.Errorf("invalid port in host %q", value)
		}
		host = host[:i]
	}

	host = strings.TrimSuffix(host, ".")
	host = strings.ToLower(host)

	if host == "" {
		return Hostname{}, fmt.Errorf("invalid host %q", value)
	}

	ascii, err := idna.ToASCII(host)
	if err != nil {
		return Hostname{}, fmt.Errorf("invalid host %q: %w", value, err)
	}

	return Hostname{ascii}, nil
}

// MustParse parses the raw host value and panics on failure. Intended for
// tests and tooling.
func MustParse(value string) Hostname {
	h, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return h
}

// String returns the normalized host.
func (h Hostname) String() string {
	return h.value
}

// IsZero reports whether the hostname holds no value.
func (h Hostname) IsZero() bool {
	return h.value == ""
}

// Labels returns the dot separated labels of the host, left to right.
func (h Hostname) Labels() []string {
	if h.value == "" {
		return nil
	}

	return strings.Split(h.value, ".")
}

// Equal provides support for the go-cmp package and testing.
func (h Hostname) Equal(h2 Hostname) bool {
	return h.value == h2.value
}

// MarshalText provides support for logging and any marshal needs.
func (h Hostname) MarshalText() ([]byte, error) {
	return []byte(h.value), nil
}
