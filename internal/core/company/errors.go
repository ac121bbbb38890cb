package company

import "errors"

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrNameAlreadyExists は会社名の重複時に返却されます。
	ErrNameAlreadyExists = errors.New("company name already exists")
	// ErrInvalidName は会社名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid company name")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid company id")
)
