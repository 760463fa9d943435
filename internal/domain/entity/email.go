package entity

import (
	"regexp"
	"sync"
)

const emailPattern = `^[a-z0-9]([a-z0-9._%+-]{0,61}[a-z0-9])?@[a-z0-9-]{1,63}(\.[a-z0-9-]{1,63})*\.[a-z]{2,6}$`

var (
	emailOnce  sync.Once
	emailRegex *regexp.Regexp
	emailErr   error
)

// Email is a validated, lowercase email address.
type Email struct {
	value string
}

func compileEmailRegex() (*regexp.Regexp, error) {
	emailOnce.Do(func() {
		emailRegex, emailErr = regexp.Compile(emailPattern)
	})
	if emailErr != nil {
		return nil, &EmailError{Kind: EmailRegexCompilationFailed, Detail: emailErr.Error()}
	}
	return emailRegex, nil
}

func validateEmail(s string) (bool, error) {
	re, err := compileEmailRegex()
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// ValidEmail reports whether s is accepted by ParseEmail.
func ValidEmail(s string) bool {
	ok, err := validateEmail(s)
	return err == nil && ok
}

// ParseEmail validates s. No case or whitespace normalization is applied.
func ParseEmail(s string) (Email, error) {
	ok, err := validateEmail(s)
	if err != nil {
		return Email{}, err
	}
	if !ok {
		return Email{}, ErrEmailValidateFailed
	}
	return Email{value: s}, nil
}

func (e Email) String() string { return e.value }
