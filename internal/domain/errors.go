package domain

import (
	"errors"
	"net/http"
)

var (
	ErrValidation      = errors.New("invalid input")   // 400
	ErrInvalidState    = errors.New("invalid state")   // 400
	ErrUnauthenticated = errors.New("unauthenticated") // 401
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrNotFound        = errors.New("not found")       // 404
	ErrConflict        = errors.New("conflict")        // 409
)

// Class is the error class reported in the "error" field of a response.
type Class struct {
	Status int
	Name   string
}

var InternalClass = Class{Status: http.StatusInternalServerError, Name: "InternalError"}

var classes = []struct {
	err   error
	class Class
}{
	{ErrValidation, Class{http.StatusBadRequest, "ValidationError"}},
	{ErrInvalidState, Class{http.StatusBadRequest, "InvalidState"}},
	{ErrUnauthenticated, Class{http.StatusUnauthorized, "Unauthenticated"}},
	{ErrForbidden, Class{http.StatusForbidden, "Forbidden"}},
	{ErrNotFound, Class{http.StatusNotFound, "NotFound"}},
	{ErrConflict, Class{http.StatusConflict, "Conflict"}},
}

// Classify maps err onto the taxonomy. Anything unknown is internal.
func Classify(err error) (Class, bool) {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.class, true
		}
	}
	return InternalClass, false
}
