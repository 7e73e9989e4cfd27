package services

import (
	"errors"
	"net/http"
)

// Domain outcomes surfaced by the managers. Controllers translate these to
// HTTP codes with HTTPStatus; the bot translates them to chat replies.
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("you do not have permission")
	ErrAlreadyReserved  = errors.New("you already have an active reservation")
	ErrTableTaken       = errors.New("this table is already reserved")
	ErrOutOfRange       = errors.New("you are outside the booking zone")
	ErrEmptyBasket      = errors.New("basket is empty")
	ErrStatusRegression = errors.New("order status cannot move backwards")
	ErrOrderFulfilled   = errors.New("order is already being fulfilled")
	ErrDuplicateReview  = errors.New("you already reviewed this dish")
	ErrCodeInvalid      = errors.New("invalid link code")
	ErrCodeExpired      = errors.New("link code has expired")
	ErrInvalidInput     = errors.New("invalid input")
)

// HTTPStatus maps a domain error to its response code. Unknown errors are
// internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyReserved),
		errors.Is(err, ErrTableTaken),
		errors.Is(err, ErrDuplicateReview),
		errors.Is(err, ErrStatusRegression),
		errors.Is(err, ErrOrderFulfilled):
		return http.StatusConflict
	case errors.Is(err, ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEmptyBasket),
		errors.Is(err, ErrCodeInvalid),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
