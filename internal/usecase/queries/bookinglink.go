package queries

import (
	"context"
	"log/slog"
	"time"

	"salon-reserve/internal/domain/bookinglink"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/pkg/clock"
	"salon-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingLinkNotFound = errs.New("booking link not found")

// TenantLineView is the tenant identity plus its messaging mode and
// tenant-level channel, read for token resolution.
type TenantLineView struct {
	TenantID  uuid.UUID
	TenantKey string
	LineMode  string
	Channel   *bookinglink.LineChannel
}

type BookingLinkReadStore interface {
	FindByToken(ctx context.Context, token string) (*bookinglink.Token, error)
	TenantLine(ctx context.Context, tenantID uuid.UUID) (*TenantLineView, error)
	StoreLine(ctx context.Context, tenantID, storeID uuid.UUID) (*bookinglink.LineChannel, error)
	PractitionerLine(ctx context.Context, tenantID, practitionerID uuid.UUID) (*bookinglink.LineChannel, error)
}

// LastUsedRecorder persists resolution timestamps outside the request
// transaction.
type LastUsedRecorder interface {
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}

type BookingLinkQueries interface {
	Resolve(ctx context.Context, token string) (*BookingLinkResolution, error)
}

type bookingLinkQueriesImpl struct {
	store    BookingLinkReadStore
	recorder LastUsedRecorder
	clock    clock.Clock
}

func NewBookingLinkQueries(store BookingLinkReadStore, recorder LastUsedRecorder, clk clock.Clock) BookingLinkQueries {
	return &bookingLinkQueriesImpl{store: store, recorder: recorder, clock: clk}
}

// Resolve maps a shareable token to its (tenant, store, practitioner)
// triple and the effective messaging config. Malformed tokens fail fast
// as not-found without touching storage.
func (q *bookingLinkQueriesImpl) Resolve(ctx context.Context, token string) (*BookingLinkResolution, error) {
	if err := bookinglink.ValidateTokenFormat(token); err != nil {
		return nil, errs.Mark(err, ErrBookingLinkNotFound)
	}

	link, err := q.store.FindByToken(ctx, token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingLinkNotFound)
		}
		return nil, err
	}
	if err := link.Usable(q.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrBookingLinkNotFound)
	}

	tenant, err := q.store.TenantLine(ctx, link.TenantID())
	if err != nil {
		return nil, err
	}

	var storeChannel *bookinglink.LineChannel
	if link.StoreID() != nil {
		storeChannel, err = q.store.StoreLine(ctx, link.TenantID(), *link.StoreID())
		if err != nil {
			return nil, err
		}
	}

	practitionerChannel, err := q.store.PractitionerLine(ctx, link.TenantID(), link.PractitionerID())
	if err != nil {
		return nil, err
	}

	_, source := bookinglink.ResolveLineConfig(tenant.LineMode, practitionerChannel, storeChannel, tenant.Channel)

	q.touchLastUsed(link.ID())

	return &BookingLinkResolution{
		TenantID:         tenant.TenantID,
		TenantKey:        tenant.TenantKey,
		StoreID:          link.StoreID(),
		PractitionerID:   link.PractitionerID(),
		LineMode:         tenant.LineMode,
		LineConfigSource: string(source),
	}, nil
}

// Best-effort: resolution never waits on, nor fails because of, the
// last-used bookkeeping.
func (q *bookingLinkQueriesImpl) touchLastUsed(id uuid.UUID) {
	at := q.clock.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := q.recorder.TouchLastUsed(ctx, id, at); err != nil {
			slog.Warn("failed to record booking link usage", "link_id", id.String(), "error", err.Error())
		}
	}()
}
