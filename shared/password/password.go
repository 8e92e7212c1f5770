package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = bcrypt.DefaultCost
	// MaxLength is the longest input bcrypt accepts, in bytes.
	MaxLength = 72
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrTooLong         = fmt.Errorf("password cannot be longer than %d bytes", MaxLength)
)

// decoy is compared against when no stored hash exists, so unknown accounts cost as much as wrong passwords.
var decoy = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("decoy"), DefaultCost)

	return hash
})

func Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > MaxLength:
		return "", ErrTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(bytes), nil
}

// Verify checks password against hash. An empty hash still burns one comparison and always fails.
func Verify(password, hash string) error {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(decoy(), []byte(password))

		return ErrInvalidPassword
	}

	if password == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}

		return fmt.Errorf("failed to verify password: %w", err)
	}

	return nil
}
