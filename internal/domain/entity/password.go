package entity

import (
	"fmt"
	"unicode/utf8"
)

const (
	passwordMinLength = 8
	redactedPassword  = "********"
)

// Password holds a plaintext password that satisfies the policy.
// Hashing is left to the credential adapter.
type Password struct {
	value string
}

func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isASCIIDigit(r rune) bool  { return r >= '0' && r <= '9' }

// ValidPassword reports whether s has at least 8 characters, an ASCII letter and an ASCII digit.
func ValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		if isASCIILetter(r) {
			hasLetter = true
		}
		if isASCIIDigit(r) {
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func ParsePassword(s string) (Password, error) {
	if !ValidPassword(s) {
		return Password{}, ErrPasswordValidateFailed
	}
	return Password{value: s}, nil
}

// String returns the plaintext.
func (p Password) String() string { return p.value }

// Format keeps the plaintext out of fmt verbs; call String explicitly to read it.
func (p Password) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redactedPassword))
}

func (p Password) GoString() string { return redactedPassword }
