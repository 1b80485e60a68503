// Package password hashes and verifies account passwords with scrypt.
//
// Hashes are stored as "salt:hash" where the salt is 16 random bytes encoded
// as hex and the hash is the hex encoded 64 byte scrypt key derived from the
// password and the salt string.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	keyLength = 64
	separator = ":"

	// scrypt cost parameters.
	costN = 16384
	costR = 8
	costP = 1
)

// ErrMismatch is returned when a password does not match the stored hash,
// or the stored hash cannot be parsed.
var ErrMismatch = errors.New("password does not match")

// Hash derives a salted hash of the password ready to be stored.
func Hash(password string) (string, error) {
	const op = "password.Hash"

	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: failed to generate salt: %w", op, err)
	}
	salt := hex.EncodeToString(b)

	key, err := derive(password, salt)
	if err != nil {
		return "", fmt.Errorf("%s: failed to derive key: %w", op, err)
	}

	return salt + separator + hex.EncodeToString(key), nil
}

// Verify checks the password against a value produced by Hash.
func Verify(password, stored string) error {
	const op = "password.Verify"

	salt, encodedKey, ok := strings.Cut(stored, separator)
	if !ok || salt == "" || encodedKey == "" {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}

	want, err := hex.DecodeString(encodedKey)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}

	got, err := derive(password, salt)
	if err != nil {
		return fmt.Errorf("%s: failed to derive key: %w", op, err)
	}

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}

	return nil
}

func derive(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), costN, costR, costP, keyLength)
}
