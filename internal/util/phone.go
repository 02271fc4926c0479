package util

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is the calling code prefixed onto national numbers (Brazil).
const DefaultCountryCode = "55"

var nonDigits = regexp.MustCompile(`\D+`)

// NormalizePhone turns free-form input into the gateway's digits-only form,
// prefixed with the default country code.
func NormalizePhone(raw string) string {
	return NormalizePhoneWithCode(raw, DefaultCountryCode)
}

// NormalizePhoneWithCode strips every non-digit and prefixes cc unless the
// digits already start with it. Digitless input yields "".
func NormalizePhoneWithCode(raw, cc string) string {
	s := nonDigits.ReplaceAllString(raw, "")
	if s == "" {
		return ""
	}
	if cc == "" || strings.HasPrefix(s, cc) {
		return s
	}

	return cc + s
}
