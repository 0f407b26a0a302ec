// Package sanitize strips sensitive substrings from relayed text before it
// leaves the router. This is a boundary control applied to every outbound
// text and filename field, not best-effort logging hygiene.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// One fixed marker per redaction category. Markers contain nothing the
// patterns below can re-match, which keeps Text idempotent.
const (
	EmailMarker  = "[redacted-email]"
	NumberMarker = "[redacted-number]"
	BearerMarker = "Bearer [redacted]"
	PhoneMarker  = "[redacted-phone]"
	ValueMarker  = "[redacted]"

	AliasFallback = "User"
	aliasEmail    = "user"
	maxAliasRunes = 30
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[A-Za-z]{2,}`)
	// 13 to 19 digits, optionally split by spaces or hyphens, card-number style.
	cardPattern     = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)
	bearerPattern   = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/=]+`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`)
	passwordPattern = regexp.MustCompile(`(?i)(password|pass|pwd)\s*[:=]\s*[^&\s]+`)
)

// Text redacts emails, card-like digit runs, bearer tokens, phone-like
// numbers and password pairs, in that fixed order.
func Text(text string) string {
	t := emailPattern.ReplaceAllString(text, EmailMarker)
	t = cardPattern.ReplaceAllString(t, NumberMarker)
	t = bearerPattern.ReplaceAllString(t, BearerMarker)
	t = phonePattern.ReplaceAllString(t, PhoneMarker)
	t = passwordPattern.ReplaceAllString(t, "${1}="+ValueMarker)
	return t
}

// Value sanitizes a raw JSON payload when it is a string. Any other JSON
// value passes through unchanged.
func Value(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw
	}
	clean, err := json.Marshal(Text(s))
	if err != nil {
		return raw
	}
	return clean
}

// Alias normalizes a display name for public use: trim, cap at 30 runes,
// strip email-like substrings, fall back to a fixed literal when nothing
// usable remains.
func Alias(raw string) string {
	a := strings.TrimSpace(raw)
	if runes := []rune(a); len(runes) > maxAliasRunes {
		a = string(runes[:maxAliasRunes])
	}
	a = emailPattern.ReplaceAllString(a, aliasEmail)
	if a == "" {
		return AliasFallback
	}
	return a
}
