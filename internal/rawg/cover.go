package rawg

import "strings"

// NormalizeCoverURL repairs the cover image URLs RAWG returns. Protocol-relative
// URLs are promoted to https, plain http is rewritten to https, and
// root-relative /media paths are completed with the provider's media host. An
// empty input stays empty; anything else passes through unchanged.
func NormalizeCoverURL(raw, mediaHost string) string {
	if raw == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"):
		return "https://" + strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "/media"):
		return strings.TrimRight(mediaHost, "/") + raw
	}
	return raw
}
