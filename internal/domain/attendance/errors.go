package attendance

import "errors"

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrDanglingUser      = errors.New("attendance record references a missing user")
	ErrInvalidThreshold  = errors.New("late threshold must be HH:MM")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidRange      = errors.New("start date is after end date")
	ErrUnknownStatus     = errors.New("unknown attendance status")
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrRecordNotOpen     = errors.New("attendance record is not open")
)
