package service

import "errors"

// Sentinel errors for the service layer. Handlers map these onto HTTP
// statuses; everything else is a 500.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
