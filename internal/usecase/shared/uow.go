package shared

import (
	"context"
	"time"

	"salon-reserve/internal/domain/bookinglink"
	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	BookingLinks() BookingLinkRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	// Update replaces all mutable row fields; the period column is
	// recomputed, so the exclusion constraint re-validates overlap
	// against every other active row.
	Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error
	ReplaceItems(ctx context.Context, dbtx db.DBTX, reservationID uuid.UUID, menus []catalog.MenuSnapshot, options []catalog.OptionSnapshot) error
	// FindForUpdate rehydrates the full aggregate under FOR UPDATE so
	// the domain state machine decides transitions on current state.
	FindForUpdate(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID, status reservation.Status, canceledAt *time.Time, cancelReason *string) error
	SetReminderSent(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID, at time.Time) error
}

type BookingLinkRepository interface {
	Insert(ctx context.Context, dbtx db.DBTX, token *bookinglink.Token) error
	RevokeActive(ctx context.Context, dbtx db.DBTX, tenantID, practitionerID uuid.UUID, storeID *uuid.UUID) (int64, error)
	Revoke(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID) error
	HasActive(ctx context.Context, dbtx db.DBTX, tenantID, practitionerID uuid.UUID, storeID *uuid.UUID) (bool, error)
	TokenValueExists(ctx context.Context, dbtx db.DBTX, token string) (bool, error)
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	ActorID             uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type IdempotencyRepository interface {
	// TryInsert claims the key, reclaiming any expired row in place;
	// inserted reports whether this call holds the claim.
	TryInsert(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (inserted bool, err error)
	Get(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID, responseHash string, resultReservationID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, tenantID uuid.UUID, kind, topic string, payload []byte, runAt time.Time) error
}
