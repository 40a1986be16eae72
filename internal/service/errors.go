package service

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidPriority    = errors.New("invalid priority value")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
)
