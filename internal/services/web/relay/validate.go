package relay

import (
	"regexp"
	"strings"
)

var (
	subdomainPattern    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	aliasAddressPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]{0,62}[a-z0-9])?$`)
)

// NormalizeSubdomain lowercases and validates a subdomain label.
func NormalizeSubdomain(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !subdomainPattern.MatchString(value) {
		return "", false
	}
	return value, true
}

// NormalizeAliasAddress lowercases and validates the local part of a custom alias.
func NormalizeAliasAddress(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if !aliasAddressPattern.MatchString(value) {
		return "", false
	}
	return value, true
}
