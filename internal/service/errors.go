package service

import "errors"

var (
	ErrInternal        = errors.New("internal server error")
	ErrUnauthenticated = errors.New("you must be logged in to create a post")
	ErrEmptyCaption    = errors.New("caption is required")
	ErrInvalidKind     = errors.New("kind must be post or spark")
	ErrInvalidCategory = errors.New("unknown category")
)
