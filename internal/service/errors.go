package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	TooManyRequests     = 429
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("invalid parameters")
	ErrPlatformUnsupported = errors.New("unsupported platform")
	ErrUsernameInvalid     = errors.New("username is empty after normalization")
	ErrRequestDuplicate    = errors.New("a pending request for this creator already exists")
	ErrCreatorNotFound     = errors.New("creator not found")
	ErrRateLimited         = errors.New("too many requests, try again later")
	UnExpectedError        = errors.New("unexpected error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrPlatformUnsupported: BadRequest,
	ErrUsernameInvalid:     BadRequest,
	ErrRequestDuplicate:    BadRequest,
	ErrCreatorNotFound:     NotFound,
	ErrRateLimited:         TooManyRequests,
	UnExpectedError:        InternalServerError,
}
