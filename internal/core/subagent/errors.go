package subagent

import "errors"

var (
	ErrInvalidCompanyID = errors.New("subagent: invalid company id")
	ErrInvalidActorID   = errors.New("subagent: invalid actor id")
	ErrInvalidName      = errors.New("subagent: invalid name")
	ErrInvalidCountry   = errors.New("subagent: invalid country")
	ErrInvalidContact   = errors.New("subagent: invalid contact")
	ErrInvalidStatus    = errors.New("subagent: invalid status")
	ErrSubAgentNotFound = errors.New("subagent: not found")
)
