package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput  = crerr.New("invalid input")
	ErrNotFound      = crerr.New("resource not found")
	ErrNotConfigured = crerr.New("schedule setting is not configured")
	ErrMustBeFuture  = crerr.New("date must be in the future")
	ErrUnauthorized  = crerr.New("unauthorized")
)
