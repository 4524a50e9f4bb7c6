package reservation

import (
	"strings"
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clk clock.Clock) *Factory {
	return &Factory{Clock: clk}
}

type NewReservationParams struct {
	TenantID      uuid.UUID
	StoreID       *uuid.UUID
	Customer      Customer
	Practitioner  Practitioner
	Date          Date
	StartTime     TimeOfDay
	// EndTime defaults to StartTime plus the summed item durations.
	EndTime       *TimeOfDay
	MenuItems     []catalog.MenuSnapshot
	OptionItems   []catalog.OptionSnapshot
	NominationFee int32
	Discount      int32
	// TotalPrice, when supplied, is validated against the canonical
	// computation instead of being trusted.
	TotalPrice      *int32
	Source          Source
	Timezone        *time.Location
	CalendarEventID *string
	ExternalRef     *string
}

// RebuildReservation revalidates a full replacement of an existing
// reservation's fields, keeping its identity and current status.
func (f *Factory) RebuildReservation(id uuid.UUID, status Status, p NewReservationParams) (*Reservation, error) {
	rebuilt, err := f.CreateReservation(p)
	if err != nil {
		return nil, err
	}
	rebuilt.id = id
	rebuilt.status = status
	return rebuilt, nil
}

func (f *Factory) CreateReservation(p NewReservationParams) (*Reservation, error) {
	if p.Customer.ID == uuid.Nil || strings.TrimSpace(p.Customer.Name) == "" {
		return nil, ErrMissingCustomer
	}
	if p.Practitioner.ID == uuid.Nil {
		return nil, ErrMissingPractitioner
	}
	if len(p.MenuItems) == 0 {
		return nil, ErrNoMenuItems
	}

	subtotal, optionTotal, duration := catalog.SumPrices(p.MenuItems, p.OptionItems)

	pricing, err := NewPricing(subtotal, optionTotal, p.NominationFee, p.Discount, p.TotalPrice)
	if err != nil {
		return nil, err
	}

	var end TimeOfDay
	if p.EndTime != nil {
		end = *p.EndTime
	} else {
		if p.StartTime.Minutes()+int(duration) >= 24*60 {
			return nil, ErrPeriodCrossesMidnight
		}
		end = p.StartTime.AddMinutes(int(duration))
	}

	period, err := NewPeriod(p.Date, p.StartTime, end, p.Timezone)
	if err != nil {
		return nil, err
	}

	source := p.Source
	if source == "" {
		source = SourceAdmin
	}

	now := f.Clock.Now()
	return &Reservation{
		id:              uuid.New(),
		tenantID:        p.TenantID,
		storeID:         p.StoreID,
		customer:        p.Customer,
		practitioner:    p.Practitioner,
		date:            p.Date,
		startTime:       p.StartTime,
		endTime:         end,
		period:          period,
		menuItems:       p.MenuItems,
		optionItems:     p.OptionItems,
		pricing:         pricing,
		durationMin:     duration,
		status:          StatusPending,
		source:          source,
		calendarEventID: p.CalendarEventID,
		externalRef:     p.ExternalRef,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}
