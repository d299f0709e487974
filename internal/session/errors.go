package session

import "errors"

var (
	ErrBusy            = errors.New("session: request already in progress")
	ErrUpstream        = errors.New("session: odds provider failed")
	ErrNoMatchSelected = errors.New("session: no match selected")
	ErrNothingSelected = errors.New("session: no markets selected")
	ErrNoPreview       = errors.New("session: preview is not open")
	ErrNotEditing      = errors.New("session: edit mode is off")
	ErrReadOnlyRow     = errors.New("session: header rows are read-only")
	ErrNotFound        = errors.New("session: not found")
)
