package ledger

import "errors"

var (
	// ErrNotFound возвращается, когда брони с таким ID нет
	ErrNotFound = errors.New("booking not found")

	// ErrDuplicateID возвращается при вставке с уже занятым ID
	ErrDuplicateID = errors.New("booking id already exists")
)
