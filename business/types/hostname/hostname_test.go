package hostname_test

import (
	"testing"

	"github.com/rhettharrison/platform-api/business/types/hostname"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Example.COM", "example.com"},
		{"strips port", "example.com:8080", "example.com"},
		{"case and port", "Example.COM:8080", "example.com"},
		{"trailing dot", "example.com.", "example.com"},
		{"surrounding space", "  example.com  ", "example.com"},
		{"idn to punycode", "münchen.de", "xn--mnchen-3ya.de"},
		{"localhost", "LocalHost", "localhost"},
		{"ipv4", "127.0.0.1:3000", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := hostname.Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, h.String())
		})
	}
}

func Test_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"scheme", "http://example.com"},
		{"path", "example.com/blog"},
		{"embedded space", "a b.com"},
		{"backslash", "example\\com"},
		{"only dot", "."},
		{"non numeric port", "example.com:abc"},
		{"port too long", "example.com:123456"},
		{"scheme without slashes", "http:example"},
		{"empty port", "example.com:"},
		{"double colon", "example.com:80:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hostname.Parse(tt.input)
			require.Error(t, err)
		})
	}
}

func Test_Labels(t *testing.T) {
	h := hostname.MustParse("acme.platform.example.com")
	require.Equal(t, []string{"acme", "platform", "example", "com"}, h.Labels())

	require.Len(t, hostname.MustParse("localhost").Labels(), 1)
}

func Test_Equal(t *testing.T) {
	a := hostname.MustParse("Example.COM:443")
	b := hostname.MustParse("example.com")
	require.True(t, a.Equal(b))
}
