package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation still occupies its period,
// i.e. participates in the no-overlap invariant.
func (s Status) IsActive() bool {
	return s != StatusCanceled && s != StatusNoShow
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCanceled, StatusNoShow},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Source records where a booking originated.
type Source string

const (
	SourceCustomer    Source = "customer"
	SourceAdmin       Source = "admin"
	SourceBookingLink Source = "booking_link"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceCustomer, SourceAdmin, SourceBookingLink:
		return true
	default:
		return false
	}
}
