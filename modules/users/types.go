// Package users handles registration, login, profile management, and the
// favorites relation. Profile routes are protected and owner-only.
package users

import "time"

type registerRequest struct {
	Username string     `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Birthday *time.Time `json:"birthday"`
}

// updateRequest uses pointers so absent fields stay untouched.
type updateRequest struct {
	Username *string    `json:"username" validate:"omitempty,min=3,max=64,alphanum"`
	Password *string    `json:"password" validate:"omitempty,min=8,max=72"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Birthday *time.Time `json:"birthday"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// profileUpdate carries the resolved field changes to the repository.
// PasswordHash is the already-hashed replacement, never the plaintext.
type profileUpdate struct {
	Name         *string
	PasswordHash *string
	Email        *string
	Birthday     *time.Time
}
