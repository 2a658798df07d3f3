package validate

import (
	"strconv"
	"strings"

	"offerlens/internal/domain"
)

// Q validates a feed search query: trims and caps the length. The text
// stage matches substrings, so any printable input is acceptable.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return s, true
}

// Email does a cheap shape check; auth is simulated and the real gate
// is the password hash.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	at := strings.Index(s, "@")
	dot := strings.LastIndex(s, ".")
	return s, at > 0 && dot > at+1 && dot < len(s)-1
}

// ID validates an opaque resource identifier (offer ids, uuids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 64 {
		return "", false
	}
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9', r == '-', r == '_':
		default:
			return "", false
		}
	}
	return s, true
}

// OfferType validates the feed type filter: "all" or a variant name.
func OfferType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return "all", true
	}
	if domain.ValidType(domain.OfferType(s)) {
		return s, true
	}
	return "", false
}

// Coord parses a latitude or longitude query parameter.
func Coord(s string, min, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < min || v > max {
		return 0, false
	}
	return v, true
}

// Location validates a free-text location query.
func Location(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Password enforces the same length window the seeded accounts use.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 64
}
