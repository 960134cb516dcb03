// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

// MaxNameLen leaves room for the terminator in a 100-byte name buffer.
const MaxNameLen = 99

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

type UserID string

type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// NewUser validates the display name and assigns a fresh id.
func NewUser(name string) (*User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &User{ID: UserID(uuid.NewString()), Name: name}, nil
}

func ValidateName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}
