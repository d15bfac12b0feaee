package service

import "github.com/go-faster/errors"

// ErrBadRequest matches every *BadRequestError via errors.Is.
var ErrBadRequest = errors.New("bad request")

// BadRequestError is an input validation failure; Message is safe to show the client.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

func (e *BadRequestError) Is(target error) bool { return target == ErrBadRequest }

func badRequest(msg string) error {
	return &BadRequestError{Message: msg}
}
