package jobdemand

import "errors"

var (
	ErrInvalidCompanyID  = errors.New("jobdemand: invalid company id")
	ErrInvalidActorID    = errors.New("jobdemand: invalid actor id")
	ErrInvalidTitle      = errors.New("jobdemand: invalid title")
	ErrInvalidCountry    = errors.New("jobdemand: invalid country")
	ErrInvalidQuantity   = errors.New("jobdemand: invalid quantity")
	ErrInvalidReference  = errors.New("jobdemand: invalid employer reference")
	ErrJobDemandNotFound = errors.New("jobdemand: not found")
)
