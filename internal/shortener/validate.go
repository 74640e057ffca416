package shortener

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxURLLength is the longest long URL accepted, in characters.
	MaxURLLength = 2048
	// MaxCustomCodeLength is the longest caller-supplied code accepted.
	MaxCustomCodeLength = 30
)

var (
	customCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hostLabelRe  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
)

// ValidateLongURL checks a candidate redirect target. Rules are applied in
// order and the first failing rule decides the reason.
func ValidateLongURL(raw string) error {
	if raw == "" {
		return invalidURL(ReasonEmpty, "URL cannot be empty")
	}

	if utf8.RuneCountInString(raw) > MaxURLLength {
		return invalidURL(ReasonTooLong,
			fmt.Sprintf("URL length exceeds maximum of %d characters", MaxURLLength))
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return invalidURL(ReasonBadScheme, "URL must start with http:// or https://")
	}

	if !wellFormed(raw) {
		return invalidURL(ReasonMalformed, "Invalid URL format")
	}

	return nil
}

// ValidateCustomCode checks a caller-supplied short code. An empty code means
// none was supplied and is not validated here.
func ValidateCustomCode(code string) error {
	if utf8.RuneCountInString(code) > MaxCustomCodeLength {
		return invalidCode(ReasonTooLong,
			fmt.Sprintf("custom code exceeds maximum of %d characters", MaxCustomCodeLength))
	}

	if code != "" && !customCodeRe.MatchString(code) {
		return invalidCode(ReasonBadChars, "custom code may only contain letters, digits, '_' and '-'")
	}

	return nil
}

func wellFormed(raw string) bool {
	if strings.ContainsAny(raw, " \t\r\n") {
		return false
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || strings.HasSuffix(u.Host, ":") {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}

	if net.ParseIP(host) != nil {
		return true
	}

	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if len(label) > 63 || !hostLabelRe.MatchString(label) {
			return false
		}
	}

	return true
}
