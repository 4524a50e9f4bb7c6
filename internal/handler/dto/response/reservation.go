package response

import (
	"time"

	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID            `json:"id"`
	TenantID         uuid.UUID            `json:"tenantId"`
	StoreID          *uuid.UUID           `json:"storeId,omitempty"`
	CustomerID       uuid.UUID            `json:"customerId"`
	CustomerName     string               `json:"customerName"`
	CustomerPhone    string               `json:"customerPhone"`
	PractitionerID   uuid.UUID            `json:"practitionerId"`
	PractitionerName string               `json:"practitionerName"`
	Date             string               `json:"date"`
	StartTime        string               `json:"startTime"`
	EndTime          string               `json:"endTime"`
	Status           string               `json:"status"`
	Source           string               `json:"source"`
	Subtotal         int32                `json:"subtotal"`
	OptionTotal      int32                `json:"optionTotal"`
	NominationFee    int32                `json:"nominationFee"`
	Discount         int32                `json:"discount"`
	TotalPrice       int32                `json:"totalPrice"`
	DurationMin      int32                `json:"durationMin"`
	MenuItems        []MenuItemResponse   `json:"menuItems"`
	OptionItems      []OptionItemResponse `json:"optionItems"`
	CanceledAt       *time.Time           `json:"canceledAt,omitempty"`
	CancelReason     *string              `json:"cancelReason,omitempty"`
	ReminderSentAt   *time.Time           `json:"reminderSentAt,omitempty"`
	CalendarEventID  *string              `json:"calendarEventId,omitempty"`
	ExternalRef      *string              `json:"externalRef,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

type MenuItemResponse struct {
	MenuID      uuid.UUID `json:"menuId"`
	Name        string    `json:"name"`
	Price       int32     `json:"price"`
	DurationMin int32     `json:"durationMin"`
	SortOrder   int32     `json:"sortOrder"`
	IsMain      bool      `json:"isMain"`
}

type OptionItemResponse struct {
	OptionID    uuid.UUID `json:"optionId"`
	Name        string    `json:"name"`
	Price       int32     `json:"price"`
	DurationMin int32     `json:"durationMin"`
	SortOrder   int32     `json:"sortOrder"`
}

type ReservationListItemResponse struct {
	ID               uuid.UUID  `json:"id"`
	StoreID          *uuid.UUID `json:"storeId,omitempty"`
	CustomerID       uuid.UUID  `json:"customerId"`
	CustomerName     string     `json:"customerName"`
	PractitionerID   uuid.UUID  `json:"practitionerId"`
	PractitionerName string     `json:"practitionerName"`
	Date             string     `json:"date"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Status           string     `json:"status"`
	TotalPrice       int32      `json:"totalPrice"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type ReservationPageResponse struct {
	Data    []ReservationListItemResponse `json:"data"`
	Page    int                           `json:"page"`
	Limit   int                           `json:"limit"`
	Total   int64                         `json:"total"`
	HasMore bool                          `json:"hasMore"`
}

type StatsResponse struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Canceled  int64 `json:"canceled"`
	NoShow    int64 `json:"noShow"`
	Total     int64 `json:"total"`
	Revenue   int64 `json:"revenue"`
}

type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ConflictResponse struct {
	HasConflict bool `json:"hasConflict"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReservationPage(page *queries.ReservationPage) *ReservationPageResponse {
	resp := ReservationPageResponse{
		Data:    make([]ReservationListItemResponse, len(page.Data)),
		Page:    page.Page,
		Limit:   page.Limit,
		Total:   page.Total,
		HasMore: page.HasMore,
	}
	for i, item := range page.Data {
		_ = copier.Copy(&resp.Data[i], item)
	}
	return &resp
}

func FromStatsView(view *queries.StatsView) *StatsResponse {
	var resp StatsResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromSlotViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, len(views))
	for i, v := range views {
		out[i] = SlotResponse{StartTime: v.StartTime, EndTime: v.EndTime}
	}
	return out
}
