package reservation

import (
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNoMenuItems        = errs.New("at least one menu item is required")
	ErrNegativePrice      = errs.New("price cannot be negative")
	ErrPriceMismatch      = errs.New("total price does not reconcile with its components")
	ErrTerminalStatus     = errs.New("reservation is in a terminal status")
	ErrInvalidTransition  = errs.New("invalid status transition")
	ErrMissingCustomer    = errs.New("customer is required")
	ErrMissingPractitioner = errs.New("practitioner is required")
)

// Pricing is the commercial breakdown of a reservation. Total always
// equals subtotal + optionTotal + nominationFee - discount; a
// caller-supplied total that does not reconcile is rejected rather than
// trusted.
type Pricing struct {
	subtotal      int32
	optionTotal   int32
	nominationFee int32
	discount      int32
	total         int32
}

func NewPricing(subtotal, optionTotal, nominationFee, discount int32, total *int32) (Pricing, error) {
	if subtotal < 0 || optionTotal < 0 || nominationFee < 0 || discount < 0 {
		return Pricing{}, ErrNegativePrice
	}
	canonical := subtotal + optionTotal + nominationFee - discount
	if canonical < 0 {
		return Pricing{}, ErrNegativePrice
	}
	if total != nil && *total != canonical {
		return Pricing{}, ErrPriceMismatch
	}
	return Pricing{
		subtotal:      subtotal,
		optionTotal:   optionTotal,
		nominationFee: nominationFee,
		discount:      discount,
		total:         canonical,
	}, nil
}

func (p Pricing) Subtotal() int32      { return p.subtotal }
func (p Pricing) OptionTotal() int32   { return p.optionTotal }
func (p Pricing) NominationFee() int32 { return p.nominationFee }
func (p Pricing) Discount() int32      { return p.discount }
func (p Pricing) Total() int32         { return p.total }

type Customer struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

type Practitioner struct {
	ID   uuid.UUID
	Name string
}

// Reservation is one scheduled (or past) appointment. Names, phone and
// item lines are denormalized copies taken at booking time so later
// catalog or customer edits never rewrite history.
type Reservation struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	storeID          *uuid.UUID
	customer         Customer
	practitioner     Practitioner
	date             Date
	startTime        TimeOfDay
	endTime          TimeOfDay
	period           Period
	menuItems        []catalog.MenuSnapshot
	optionItems      []catalog.OptionSnapshot
	pricing          Pricing
	durationMin      int32
	status           Status
	source           Source
	canceledAt       *time.Time
	cancelReason     *string
	reminderSentAt   *time.Time
	calendarEventID  *string
	externalRef      *string
	createdAt        time.Time
	updatedAt        time.Time
}

func ReconstructReservation(
	id, tenantID uuid.UUID,
	storeID *uuid.UUID,
	customer Customer,
	practitioner Practitioner,
	date Date,
	startTime, endTime TimeOfDay,
	period Period,
	menuItems []catalog.MenuSnapshot,
	optionItems []catalog.OptionSnapshot,
	pricing Pricing,
	durationMin int32,
	status Status,
	source Source,
	canceledAt *time.Time,
	cancelReason *string,
	reminderSentAt *time.Time,
	calendarEventID, externalRef *string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		tenantID:        tenantID,
		storeID:         storeID,
		customer:        customer,
		practitioner:    practitioner,
		date:            date,
		startTime:       startTime,
		endTime:         endTime,
		period:          period,
		menuItems:       menuItems,
		optionItems:     optionItems,
		pricing:         pricing,
		durationMin:     durationMin,
		status:          status,
		source:          source,
		canceledAt:      canceledAt,
		cancelReason:    cancelReason,
		reminderSentAt:  reminderSentAt,
		calendarEventID: calendarEventID,
		externalRef:     externalRef,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Transition applies one edge of the status state machine. Terminal
// statuses absorb: any transition out of them is rejected, never
// silently ignored.
func (r *Reservation) Transition(to Status, reason *string, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidTransition
	}
	if r.status.IsTerminal() {
		return ErrTerminalStatus
	}
	if !r.status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}

	r.status = to
	if to == StatusCanceled {
		at := now
		r.canceledAt = &at
		r.cancelReason = reason
	}
	return nil
}

func (r *Reservation) MarkReminderSent(at time.Time) {
	r.reminderSentAt = &at
}

func (r *Reservation) ID() uuid.UUID                         { return r.id }
func (r *Reservation) TenantID() uuid.UUID                   { return r.tenantID }
func (r *Reservation) StoreID() *uuid.UUID                   { return r.storeID }
func (r *Reservation) Customer() Customer                    { return r.customer }
func (r *Reservation) Practitioner() Practitioner            { return r.practitioner }
func (r *Reservation) Date() Date                            { return r.date }
func (r *Reservation) StartTime() TimeOfDay                  { return r.startTime }
func (r *Reservation) EndTime() TimeOfDay                    { return r.endTime }
func (r *Reservation) Period() Period                        { return r.period }
func (r *Reservation) MenuItems() []catalog.MenuSnapshot     { return r.menuItems }
func (r *Reservation) OptionItems() []catalog.OptionSnapshot { return r.optionItems }
func (r *Reservation) Pricing() Pricing                      { return r.pricing }
func (r *Reservation) DurationMin() int32                    { return r.durationMin }
func (r *Reservation) Status() Status                        { return r.status }
func (r *Reservation) Source() Source                        { return r.source }
func (r *Reservation) CanceledAt() *time.Time                { return r.canceledAt }
func (r *Reservation) CancelReason() *string                 { return r.cancelReason }
func (r *Reservation) ReminderSentAt() *time.Time            { return r.reminderSentAt }
func (r *Reservation) CalendarEventID() *string              { return r.calendarEventID }
func (r *Reservation) ExternalRef() *string                  { return r.externalRef }
func (r *Reservation) CreatedAt() time.Time                  { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time                  { return r.updatedAt }
