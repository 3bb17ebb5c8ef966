package users

import "errors"

var (
	ErrNameTaken    = errors.New("users: username already taken")
	ErrUserNotFound = errors.New("users: user not found")
)
