package entity

import "strconv"

// UserType classifies a user. The numeric codes are part of the storage format.
type UserType int

const (
	Registered UserType = 1
	Guest      UserType = 2
)

// ParseUserType maps a numeric code to a UserType.
func ParseUserType(n int) (UserType, error) {
	switch n {
	case 1:
		return Registered, nil
	case 2:
		return Guest, nil
	}
	return 0, &UserTypeError{Value: strconv.Itoa(n)}
}

// ParseUserTypeText is the inverse of UserType.String.
func ParseUserTypeText(s string) (UserType, error) {
	switch s {
	case "1":
		return Registered, nil
	case "2":
		return Guest, nil
	}
	return 0, &UserTypeError{Value: s}
}

// Code returns the numeric code.
func (t UserType) Code() int {
	switch t {
	case Registered:
		return 1
	case Guest:
		return 2
	}
	return 0
}

func (t UserType) String() string {
	switch t {
	case Registered:
		return "1"
	case Guest:
		return "2"
	}
	return ""
}
