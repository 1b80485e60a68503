// Package entity defines the entities and errors used in the application.
// It includes the User, Link and Visit structs that describe accounts,
// shortened links and the redirects recorded for them, along with the
// errors the use cases report about them.
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrSlugTaken is returned when a slug is already used by another link,
	// either as its generated slug or as its custom slug.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("user already exists")
	// ErrLinkNotFound is returned when a link cannot be found, including when it
	// exists but belongs to another user.
	ErrLinkNotFound = errors.New("link not found")
	// ErrUserNotFound is returned by user storage when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when login fails, whatever the reason.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when a bearer token is missing, malformed or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ValidationError describes malformed input for a single field.
type ValidationError struct {
	Field   string // Field is the name of the offending input field.
	Message string // Message is a human readable description of the problem.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
