package queries

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Read models (DTO for read side)
type ReservationView struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	StoreID          *uuid.UUID       `json:"store_id,omitempty"`
	CustomerID       uuid.UUID        `json:"customer_id"`
	CustomerName     string           `json:"customer_name"`
	CustomerPhone    string           `json:"customer_phone"`
	PractitionerID   uuid.UUID        `json:"practitioner_id"`
	PractitionerName string           `json:"practitioner_name"`
	Date             string           `json:"date"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
	Status           string           `json:"status"`
	Source           string           `json:"source"`
	Subtotal         int32            `json:"subtotal"`
	OptionTotal      int32            `json:"option_total"`
	NominationFee    int32            `json:"nomination_fee"`
	Discount         int32            `json:"discount"`
	TotalPrice       int32            `json:"total_price"`
	DurationMin      int32            `json:"duration_min"`
	MenuItems        []MenuItemView   `json:"menu_items"`
	OptionItems      []OptionItemView `json:"option_items"`
	CanceledAt       *time.Time       `json:"canceled_at,omitempty"`
	CancelReason     *string          `json:"cancel_reason,omitempty"`
	ReminderSentAt   *time.Time       `json:"reminder_sent_at,omitempty"`
	CalendarEventID  *string          `json:"calendar_event_id,omitempty"`
	ExternalRef      *string          `json:"external_ref,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type MenuItemView struct {
	MenuID      uuid.UUID `json:"menu_id"`
	Name        string    `json:"name"`
	Price       int32     `json:"price"`
	DurationMin int32     `json:"duration_min"`
	SortOrder   int32     `json:"sort_order"`
	IsMain      bool      `json:"is_main"`
}

type OptionItemView struct {
	OptionID    uuid.UUID `json:"option_id"`
	Name        string    `json:"name"`
	Price       int32     `json:"price"`
	DurationMin int32     `json:"duration_min"`
	SortOrder   int32     `json:"sort_order"`
}

type ReservationListItem struct {
	ID               uuid.UUID  `json:"id"`
	StoreID          *uuid.UUID `json:"store_id,omitempty"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	PractitionerID   uuid.UUID  `json:"practitioner_id"`
	PractitionerName string     `json:"practitioner_name"`
	Date             string     `json:"date"`
	StartTime        string     `json:"start_time"`
	EndTime          string     `json:"end_time"`
	Status           string     `json:"status"`
	TotalPrice       int32      `json:"total_price"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ReservationPage is the offset-paging envelope used by the admin
// console: HasMore is offset + returned < total.
type ReservationPage struct {
	Data    []*ReservationListItem `json:"data"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	Total   int64                  `json:"total"`
	HasMore bool                   `json:"has_more"`
}

const (
	SortDefault     = ""             // date asc, start time asc
	SortCreatedDesc = "created_desc" // admin paging
)

type ListFilter struct {
	Status         *string
	PractitionerID *uuid.UUID
	CustomerID     *uuid.UUID
	DateFrom       *string
	DateTo         *string
	Sort           string
}

type StatsView struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Canceled  int64 `json:"canceled"`
	NoShow    int64 `json:"no_show"`
	Total     int64 `json:"total"`
	// Revenue sums total_price over completed reservations only.
	Revenue int64 `json:"revenue"`
}

type SlotView struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type BookingLinkView struct {
	ID             uuid.UUID  `json:"id"`
	StoreID        *uuid.UUID `json:"store_id,omitempty"`
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	Token          string     `json:"token"`
	Status         string     `json:"status"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// BookingLinkResolution is what a shareable token resolves to for the
// public booking entry point.
type BookingLinkResolution struct {
	TenantID         uuid.UUID  `json:"tenant_id"`
	TenantKey        string     `json:"tenant_key"`
	StoreID          *uuid.UUID `json:"store_id,omitempty"`
	PractitionerID   uuid.UUID  `json:"practitioner_id"`
	LineMode         string     `json:"line_mode"`
	LineConfigSource string     `json:"line_config_source"`
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
