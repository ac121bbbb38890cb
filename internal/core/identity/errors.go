package identity

import "errors"

var (
	ErrInvalidEmail       = errors.New("identity: invalid email")
	ErrInvalidFullName    = errors.New("identity: invalid full name")
	ErrInvalidPassword    = errors.New("identity: password must be at least 6 characters")
	ErrInvalidRole        = errors.New("identity: invalid role")
	ErrInvalidCompanyName = errors.New("identity: invalid company name")
	ErrEmailAlreadyExists = errors.New("identity: email already exists")
	ErrUserNotFound       = errors.New("identity: user not found")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrCompanyRequired    = errors.New("identity: company is required for this role")
)
