package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email has already been taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnconfirmed        = errors.New("you have to confirm your email address before continuing")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidToken       = errors.New("confirmation token is invalid")
)
