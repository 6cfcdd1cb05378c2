package handler

import "errors"

var (
	errNotAuthorized   = errors.New("user is not authorized")
	errInvalidPostID   = errors.New("invalid post ID")
	errInvalidUserID   = errors.New("invalid user ID")
	errInvalidClaims   = errors.New("token does not carry a valid subject")
	errProfileNotFound = errors.New("profile not found")
)
