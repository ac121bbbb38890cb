package employer

import "errors"

var (
	ErrInvalidID        = errors.New("employer: invalid id")
	ErrInvalidCompanyID = errors.New("employer: invalid company id")
	ErrInvalidActorID   = errors.New("employer: invalid actor id")
	ErrInvalidName      = errors.New("employer: invalid employer name")
	ErrInvalidCountry   = errors.New("employer: invalid country")
	ErrInvalidContact   = errors.New("employer: invalid contact number")
	ErrInvalidAddress   = errors.New("employer: invalid address")
	ErrInvalidStatus    = errors.New("employer: invalid status")
	ErrEmployerNotFound = errors.New("employer: not found")
)
