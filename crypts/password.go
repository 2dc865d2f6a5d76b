package crypts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme says how passwords are stored in the users table.
type PasswordScheme string

const (
	// SchemePlaintext stores and compares passwords as-is. It is the default
	// and matches the demo data shipped with the app; it is not safe for real
	// accounts.
	SchemePlaintext PasswordScheme = "plaintext"
	SchemeBcrypt    PasswordScheme = "bcrypt"
)

var ErrPasswordMismatch = errors.New("password mismatch")

func ParsePasswordScheme(s string) (PasswordScheme, error) {
	switch PasswordScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemePlaintext:
		return SchemePlaintext, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("unknown password scheme %q", s)
}

// Encode turns a plaintext password into its stored form.
func (p PasswordScheme) Encode(password string) (string, error) {
	if p != SchemeBcrypt {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks a plaintext password against its stored form.
func (p PasswordScheme) Compare(stored, password string) error {
	if p != SchemeBcrypt {
		if stored != password {
			return ErrPasswordMismatch
		}
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
