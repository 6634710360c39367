// Package validation contains input validation rules for account fields.
package validation

import (
	"fmt"
	"regexp"
	"unicode"
)

// Handles must stay within the mention charset so that every handle is
// reachable via @handle in post and comment bodies.
var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var reservedHandles = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"tag":           {},
	"u":             {},
	"feed":          {},
	"notifications": {},
	"chats":         {},
	"settings":      {},
	"search":        {},
	"metrics":       {},
	"login":         {},
	"signup":        {},
}

// ValidateHandle validates handle format and reserved names.
func ValidateHandle(handle string) error {
	if !handlePattern.MatchString(handle) {
		return fmt.Errorf("handle must be 3-30 characters and contain only letters, numbers, and underscores")
	}
	if _, exists := reservedHandles[handle]; exists {
		return fmt.Errorf("handle is reserved")
	}
	return nil
}

// ValidateEmail performs a shape check; deliverability is not verified.
func ValidateEmail(email string) error {
	if len(email) > 120 || !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the password policy: 12-128 characters with at
// least one upper-case letter, one lower-case letter, one digit, and one
// symbol.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < 12 {
		return fmt.Errorf("password must be at least 12 characters")
	}
	if len(runes) > 128 {
		return fmt.Errorf("password must be at most 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an upper-case letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lower-case letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a symbol")
	}
	return nil
}
