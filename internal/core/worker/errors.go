package worker

import "errors"

var (
	ErrInvalidID                 = errors.New("worker: invalid id")
	ErrInvalidActor              = errors.New("worker: actor is not authenticated")
	ErrInvalidPassportNumber     = errors.New("worker: invalid passport number")
	ErrInvalidName               = errors.New("worker: invalid name")
	ErrInvalidCountry            = errors.New("worker: invalid country")
	ErrInvalidStatus             = errors.New("worker: invalid status")
	ErrInvalidStage              = errors.New("worker: unknown stage")
	ErrInvalidTimeline           = errors.New("worker: invalid stage timeline")
	ErrInvalidReference          = errors.New("worker: invalid reference id")
	ErrInvalidTransition         = errors.New("worker: stage is not the immediate successor")
	ErrStageConflict             = errors.New("worker: stage changed by a concurrent update")
	ErrWorkerNotFound            = errors.New("worker: not found")
	ErrPassportAlreadyRegistered = errors.New("worker: passport number already registered")
)
