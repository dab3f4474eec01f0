package common

import (
	"net/url"
	"strings"
)

// MaskSecret keeps a short prefix of s and hides the rest.
func MaskSecret(s string) string {
	const keep = 4
	if s == "" {
		return ""
	}
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..."
}

// MaskQuery returns rawURL with the values of the named query parameters masked.
func MaskQuery(rawURL string, params ...string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	for _, p := range params {
		if v := q.Get(p); v != "" {
			q.Set(p, MaskSecret(v))
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsPlaceholder reports whether v is empty or one of the placeholder values
// shipped in sample env files.
func IsPlaceholder(v string, placeholders ...string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	for _, p := range placeholders {
		if strings.EqualFold(v, p) {
			return true
		}
	}
	return false
}
