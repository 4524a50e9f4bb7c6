package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingLinkRequest struct {
	PractitionerID uuid.UUID  `json:"practitioner_id" binding:"required"`
	StoreID        *uuid.UUID `json:"store_id,omitempty"`
	Reissue        bool       `json:"reissue,omitempty"`
	AllowMultiple  bool       `json:"allow_multiple,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}
