package attendance

import "fmt"

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
	// StatusAbsent is derived for views and is never written to the ledger.
	StatusAbsent Status = "absent"
)

// StoredStatuses lists the values the ledger accepts.
var StoredStatuses = []Status{StatusPresent, StatusLate, StatusHalfDay}

func (s Status) Storable() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// ParseStatus accepts only ledger statuses.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Storable() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return status, nil
}
