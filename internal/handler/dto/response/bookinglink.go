package response

import (
	"salon-reserve/internal/usecase/commands"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingLinkCreatedResponse struct {
	ID uuid.UUID `json:"id"`
	// Token is returned exactly once, at creation.
	Token        string `json:"token"`
	RevokedCount int64  `json:"revokedCount"`
}

type BookingLinkResolutionResponse struct {
	TenantID         uuid.UUID  `json:"tenantId"`
	TenantKey        string     `json:"tenantKey"`
	StoreID          *uuid.UUID `json:"storeId,omitempty"`
	PractitionerID   uuid.UUID  `json:"practitionerId"`
	LineMode         string     `json:"lineMode"`
	LineConfigSource string     `json:"lineConfigSource"`
}

func FromBookingLinkResult(result *commands.CreateBookingLinkResult) *BookingLinkCreatedResponse {
	return &BookingLinkCreatedResponse{
		ID:           result.ID,
		Token:        result.Token,
		RevokedCount: result.RevokedCount,
	}
}

func FromBookingLinkResolution(res *queries.BookingLinkResolution) *BookingLinkResolutionResponse {
	return &BookingLinkResolutionResponse{
		TenantID:         res.TenantID,
		TenantKey:        res.TenantKey,
		StoreID:          res.StoreID,
		PractitionerID:   res.PractitionerID,
		LineMode:         res.LineMode,
		LineConfigSource: res.LineConfigSource,
	}
}
