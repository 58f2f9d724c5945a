package service

import "errors"

var (
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
)
