package handler

import "errors"

var (
	errNotAuthorized     = errors.New("user is not authorized")
	errInvalidItemRef    = errors.New("invalid item reference")
	errInvalidCommentID  = errors.New("invalid comment ID")
	errInvalidPagination = errors.New("page and page size must be positive integers")
	errInvalidScope      = errors.New("scope must be one of global, cat:<id>, ct:<id>")
)
