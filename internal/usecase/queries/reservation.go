package queries

import (
	"context"

	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidFilter       = errs.New("invalid list filter")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter, page, limit int) (*ReservationPage, error)
	Stats(ctx context.Context, tenantID uuid.UUID, from, to reservation.Date) (*StatsView, error)
	BookedSlots(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date) ([]SlotView, error)
	HasConflict(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date, start, end reservation.TimeOfDay, excludeID *uuid.UUID) (bool, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ReservationView, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter, limit, offset int32) ([]*ReservationListItem, int64, error)
	Stats(ctx context.Context, tenantID uuid.UUID, from, to reservation.Date) (*StatsView, error)
	BookedSlots(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date) ([]SlotView, error)
	HasConflict(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date, start, end reservation.TimeOfDay, excludeID *uuid.UUID) (bool, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, tenantID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter, page, limit int) (*ReservationPage, error) {
	page = ValidatePage(page)
	limit = ValidateLimit(limit)
	offset := (page - 1) * limit

	if filter.Status != nil && !reservation.Status(*filter.Status).IsValid() {
		return nil, ErrInvalidFilter
	}

	items, total, err := q.store.List(ctx, tenantID, filter, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}

	return &ReservationPage{
		Data:    items,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: int64(offset+len(items)) < total,
	}, nil
}

func (q *reservationQueriesImpl) Stats(ctx context.Context, tenantID uuid.UUID, from, to reservation.Date) (*StatsView, error) {
	return q.store.Stats(ctx, tenantID, from, to)
}

func (q *reservationQueriesImpl) BookedSlots(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date) ([]SlotView, error) {
	return q.store.BookedSlots(ctx, tenantID, practitionerID, date)
}

// HasConflict is an advisory pre-flight read for slot-grid UIs. The
// authoritative overlap enforcement is the storage-level exclusion
// constraint checked inside the create/update transaction.
func (q *reservationQueriesImpl) HasConflict(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date, start, end reservation.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	if !start.Before(end) {
		return false, ErrInvalidFilter
	}
	return q.store.HasConflict(ctx, tenantID, practitionerID, date, start, end, excludeID)
}
