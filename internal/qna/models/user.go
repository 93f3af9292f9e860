package models

import (
	"time"

	id "qna/pkg/domain"
	dErrors "qna/pkg/domain-errors"
)

// User is the identity and ownership token for content.
//
// Invariants:
//   - Username and Email are non-empty
//   - PasswordHash is opaque to this module (hashed by pkg/secrets)
//
// User owns nothing: questions, answers and delete histories reference a
// UserID one way. The "user's questions/answers/histories" views are
// computed from the content index at query time, never stored here as
// back-pointers needing synchronization.
type User struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(userID id.UserID, username, name, email, passwordHash string, now time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID cannot be nil")
	}
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "username cannot be empty")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	return &User{
		ID:           userID,
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Is compares user identity by stable ID, never by object identity.
func (u *User) Is(other id.UserID) bool {
	return u.ID == other
}
