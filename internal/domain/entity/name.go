package entity

import "unicode/utf8"

const nameMaxLength = 20

// Name is a display name of 1 to 20 characters.
type Name struct {
	value string
}

func ValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= nameMaxLength
}

func ParseName(s string) (Name, error) {
	if !ValidName(s) {
		return Name{}, &NameError{Value: s}
	}
	return Name{value: s}, nil
}

func (n Name) String() string { return n.value }
