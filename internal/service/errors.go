package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation")      // 400
	ErrNotFound        = errors.New("not found")       // 404
	ErrUnauthenticated = errors.New("unauthenticated") // 401
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrConflict        = errors.New("conflict")        // 409

	ErrAlreadyExists    = classified("already exists", ErrValidation)
	ErrEmptyCart        = classified("cart is empty, cannot place order", ErrValidation)
	ErrWrongCredentials = classified("wrong credentials", ErrUnauthenticated)
)

// classifiedError carries a client-facing message and matches its class with errors.Is.
type classifiedError struct {
	msg   string
	class error
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.class }

func classified(msg string, class error) error {
	return &classifiedError{msg: msg, class: class}
}

func invalid(format string, args ...any) error {
	return classified(fmt.Sprintf(format, args...), ErrValidation)
}
