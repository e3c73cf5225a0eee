package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id" bson:"_id"`

	// Email is the user's email address (unique, lower-cased).
	Email string `json:"email" bson:"email"`

	// DisplayName is the name shown to other group members.
	DisplayName string `json:"displayName" bson:"displayName"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-" bson:"passwordHash"`

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// NewUser creates a user with a fresh ID and timestamps.
// An empty display name falls back to the local part of the email.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Name returns the name to snapshot into groups: the display name, or the email if unset.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
