package request

import (
	"salon-reserve/internal/usecase/commands"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	StoreID         *uuid.UUID  `json:"store_id,omitempty"`
	CustomerID      uuid.UUID   `json:"customer_id" binding:"required"`
	PractitionerID  uuid.UUID   `json:"practitioner_id" binding:"required"`
	Date            string      `json:"date" binding:"required,dateformat"`
	StartTime       string      `json:"start_time" binding:"required,timeformat"`
	EndTime         *string     `json:"end_time,omitempty" binding:"omitempty,timeformat"`
	MenuIDs         []uuid.UUID `json:"menu_ids" binding:"required,min=1"`
	OptionIDs       []uuid.UUID `json:"option_ids,omitempty"`
	NominationFee   int32       `json:"nomination_fee" binding:"gte=0"`
	Discount        int32       `json:"discount" binding:"gte=0"`
	TotalPrice      *int32      `json:"total_price,omitempty"`
	Source          string      `json:"source,omitempty" binding:"omitempty,oneof=customer admin booking_link"`
	CalendarEventID *string     `json:"calendar_event_id,omitempty"`
	ExternalRef     *string     `json:"external_ref,omitempty"`
}

func (r CreateReservationRequest) ToInput() commands.ReservationInput {
	return commands.ReservationInput{
		StoreID:         r.StoreID,
		CustomerID:      r.CustomerID,
		PractitionerID:  r.PractitionerID,
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		MenuIDs:         r.MenuIDs,
		OptionIDs:       r.OptionIDs,
		NominationFee:   r.NominationFee,
		Discount:        r.Discount,
		TotalPrice:      r.TotalPrice,
		Source:          r.Source,
		CalendarEventID: r.CalendarEventID,
		ExternalRef:     r.ExternalRef,
	}
}

// UpdateReservationRequest is a full replacement; partial updates are
// not supported, clients send the complete desired state.
type UpdateReservationRequest struct {
	StoreID         *uuid.UUID  `json:"store_id,omitempty"`
	CustomerID      uuid.UUID   `json:"customer_id" binding:"required"`
	PractitionerID  uuid.UUID   `json:"practitioner_id" binding:"required"`
	Date            string      `json:"date" binding:"required,dateformat"`
	StartTime       string      `json:"start_time" binding:"required,timeformat"`
	EndTime         *string     `json:"end_time,omitempty" binding:"omitempty,timeformat"`
	MenuIDs         []uuid.UUID `json:"menu_ids" binding:"required,min=1"`
	OptionIDs       []uuid.UUID `json:"option_ids,omitempty"`
	NominationFee   int32       `json:"nomination_fee" binding:"gte=0"`
	Discount        int32       `json:"discount" binding:"gte=0"`
	TotalPrice      *int32      `json:"total_price,omitempty"`
	CalendarEventID *string     `json:"calendar_event_id,omitempty"`
	ExternalRef     *string     `json:"external_ref,omitempty"`
}

func (r UpdateReservationRequest) ToInput() commands.ReservationInput {
	return commands.ReservationInput{
		StoreID:         r.StoreID,
		CustomerID:      r.CustomerID,
		PractitionerID:  r.PractitionerID,
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		MenuIDs:         r.MenuIDs,
		OptionIDs:       r.OptionIDs,
		NominationFee:   r.NominationFee,
		Discount:        r.Discount,
		TotalPrice:      r.TotalPrice,
		CalendarEventID: r.CalendarEventID,
		ExternalRef:     r.ExternalRef,
	}
}

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=pending confirmed completed canceled no_show"`
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500"`
	// Force skips the cancellation deadline check; admin only.
	Force bool `json:"force,omitempty"`
}

type ListReservationsQuery struct {
	Page           int        `form:"page"`
	Limit          int        `form:"limit"`
	Status         *string    `form:"status"`
	PractitionerID *uuid.UUID `form:"practitioner_id"`
	CustomerID     *uuid.UUID `form:"customer_id"`
	DateFrom       *string    `form:"date_from" binding:"omitempty,dateformat"`
	DateTo         *string    `form:"date_to" binding:"omitempty,dateformat"`
	Sort           string     `form:"sort" binding:"omitempty,oneof=created_desc"`
}

func (q ListReservationsQuery) ToFilter() queries.ListFilter {
	return queries.ListFilter{
		Status:         q.Status,
		PractitionerID: q.PractitionerID,
		CustomerID:     q.CustomerID,
		DateFrom:       q.DateFrom,
		DateTo:         q.DateTo,
		Sort:           q.Sort,
	}
}

type StatsQuery struct {
	From string `form:"from" binding:"required,dateformat"`
	To   string `form:"to" binding:"required,dateformat"`
}

type SlotsQuery struct {
	Date string `form:"date" binding:"required,dateformat"`
}

type ConflictQuery struct {
	Date      string     `form:"date" binding:"required,dateformat"`
	Start     string     `form:"start" binding:"required,timeformat"`
	End       string     `form:"end" binding:"required,timeformat"`
	ExcludeID *uuid.UUID `form:"exclude_id"`
}
