package service

import "errors"

var (
	ErrInternal             = errors.New("internal server error")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrCommentingBlocked    = errors.New("commenting is blocked for this item")
	ErrUnsupportedPolicy    = errors.New("unsupported ranking policy")
	ErrUnknownScope         = errors.New("unknown ranking scope")
	ErrInvalidSlice         = errors.New("invalid slice bounds")
	ErrInvalidPagination    = errors.New("invalid pagination parameters")
	ErrPageOutOfRange       = errors.New("page out of range")
	ErrUnknownOptionsTarget = errors.New("unknown comment options target")
)
