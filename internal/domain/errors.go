package domain

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrSeatConflict    = errors.New("seat is not available")
	ErrShowtimeExpired = errors.New("showtime has already started")
	ErrForbidden       = errors.New("operation not permitted for this user")
	ErrEditConflict    = errors.New("edit conflict")
)
