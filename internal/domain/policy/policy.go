// Package policy validates candidate bookings and cancellations against
// tenant-configured store policy. All checks convert local wall-clock
// values to absolute instants through the store's IANA timezone, so that
// day boundaries and deadlines stay correct in DST-observing zones.
package policy

import (
	"time"

	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/pkg/errs"
)

var (
	ErrAdvanceWindowExceeded = errs.New("date is beyond the advance booking window")
	ErrCancelDeadlinePassed  = errs.New("cancellation deadline has passed")
)

type StorePolicy struct {
	Timezone            string
	SlotDurationMin     int
	AdvanceBookingDays  int
	CancelDeadlineHours int
}

func (p StorePolicy) Location() (*time.Location, error) {
	return reservation.LoadLocation(p.Timezone)
}

// ValidateAdvanceBooking checks target against the store-local calendar
// boundary now.date + AdvanceBookingDays. A zero window disables the
// check entirely.
func ValidateAdvanceBooking(target reservation.Date, p StorePolicy, now time.Time) error {
	if p.AdvanceBookingDays == 0 {
		return nil
	}
	loc, err := p.Location()
	if err != nil {
		return err
	}
	limit := reservation.DateOf(now.In(loc)).AddDays(p.AdvanceBookingDays)
	if target.After(limit) {
		return ErrAdvanceWindowExceeded
	}
	return nil
}

// ValidateCancelDeadline rejects when now is at or past the cutoff
// (local start minus CancelDeadlineHours); the cutoff itself is already
// too late for the customer.
func ValidateCancelDeadline(date reservation.Date, start reservation.TimeOfDay, p StorePolicy, now time.Time) error {
	loc, err := p.Location()
	if err != nil {
		return err
	}
	cutoff := date.At(start, loc).Add(-time.Duration(p.CancelDeadlineHours) * time.Hour)
	if !now.Before(cutoff) {
		return ErrCancelDeadlinePassed
	}
	return nil
}
