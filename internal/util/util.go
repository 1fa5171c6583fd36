package util

import "strings"

// NormalizeEmail canonicalizes an email address for storage and lookup:
// surrounding whitespace is trimmed and the whole address lower-cased.
// Every email that touches the users table must pass through here first,
// so "User@Example.com " and "user@example.com" resolve to one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
