package entity

import (
	"strings"

	"github.com/google/uuid"
)

const (
	idSeparator = "_"

	// UserIDPrefix is the type prefix of user identifiers.
	UserIDPrefix = "usr"
)

// ID is a typed entity identifier of the form <prefix>_<uuid>.
type ID struct {
	prefix string
	value  string
}

// GenerateID formats prefix and u as an identifier. A nil u gets a fresh random v4 uuid.
func GenerateID(prefix string, u *uuid.UUID) string {
	if u == nil {
		v := uuid.New()
		u = &v
	}
	return prefix + idSeparator + u.String()
}

// NewID returns a random identifier with the given prefix.
func NewID(prefix string) ID {
	return ID{prefix: prefix, value: GenerateID(prefix, nil)}
}

// IDFromUUID returns the identifier for a known uuid.
func IDFromUUID(prefix string, u uuid.UUID) ID {
	return ID{prefix: prefix, value: GenerateID(prefix, &u)}
}

// ParseID parses s and checks that it carries the expected prefix.
func ParseID(prefix, s string) (ID, error) {
	parts := strings.Split(s, idSeparator)
	if len(parts) != 2 {
		return ID{}, ErrInvalidFormat
	}
	if parts[0] != prefix {
		return ID{}, ErrInvalidFormat
	}
	u, err := uuid.Parse(parts[1])
	if err != nil {
		return ID{}, ErrInvalidUUID
	}
	return IDFromUUID(prefix, u), nil
}

func (id ID) Prefix() string { return id.prefix }
func (id ID) Value() string  { return id.value }
func (id ID) String() string { return id.value }

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool { return id.value == "" }

// UserID identifies a User aggregate.
type UserID struct {
	ID
}

func NewUserID() UserID { return UserID{NewID(UserIDPrefix)} }

func UserIDFromUUID(u uuid.UUID) UserID { return UserID{IDFromUUID(UserIDPrefix, u)} }

func ParseUserID(s string) (UserID, error) {
	id, err := ParseID(UserIDPrefix, s)
	if err != nil {
		return UserID{}, err
	}
	return UserID{id}, nil
}
