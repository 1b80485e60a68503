package entity

import "time"

// User represents a registered account.
type User struct {
	ID           string    // ID is the unique identifier of the user.
	Email        string    // Email is the unique login of the user.
	PasswordHash string    // PasswordHash holds the salt and derived key as "salt:hash".
	CreatedAt    time.Time // CreatedAt is the timestamp when the user registered.
}
