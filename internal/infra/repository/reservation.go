package repository

import (
	"context"
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

const insertReservationQuery = `
	INSERT INTO reservations (
		id, tenant_id, store_id, customer_id, customer_name, customer_phone,
		practitioner_id, practitioner_name,
		date, start_time, end_time, period, duration_min,
		subtotal, option_total, nomination_fee, discount, total_price,
		status, source, calendar_event_id, external_ref
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8,
		$9::date, $10, $11, $12::tstzrange, $13,
		$14, $15, $16, $17, $18,
		$19, $20, $21, $22
	)
	RETURNING id
`

func (r *ReservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	pricing := res.Pricing()

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertReservationQuery,
		res.ID(), res.TenantID(), res.StoreID(), res.Customer().ID, res.Customer().Name, res.Customer().Phone,
		res.Practitioner().ID, res.Practitioner().Name,
		res.Date().String(), res.StartTime().String(), res.EndTime().String(), res.Period().ToTstzrange(), res.DurationMin(),
		pricing.Subtotal(), pricing.OptionTotal(), pricing.NominationFee(), pricing.Discount(), pricing.Total(),
		string(res.Status()), string(res.Source()), res.CalendarEventID(), res.ExternalRef(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert reservation", err)
	}

	if err := r.insertItems(ctx, dbtx, id, res.MenuItems(), res.OptionItems()); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

const updateReservationQuery = `
	UPDATE reservations SET
		store_id = $3,
		customer_id = $4, customer_name = $5, customer_phone = $6,
		practitioner_id = $7, practitioner_name = $8,
		date = $9::date, start_time = $10, end_time = $11,
		period = $12::tstzrange, duration_min = $13,
		subtotal = $14, option_total = $15, nomination_fee = $16,
		discount = $17, total_price = $18,
		calendar_event_id = $19, external_ref = $20,
		updated_at = now()
	WHERE tenant_id = $1 AND id = $2
`

func (r *ReservationRepository) Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error {
	pricing := res.Pricing()

	tag, err := dbtx.Exec(ctx, updateReservationQuery,
		res.TenantID(), res.ID(), res.StoreID(),
		res.Customer().ID, res.Customer().Name, res.Customer().Phone,
		res.Practitioner().ID, res.Practitioner().Name,
		res.Date().String(), res.StartTime().String(), res.EndTime().String(),
		res.Period().ToTstzrange(), res.DurationMin(),
		pricing.Subtotal(), pricing.OptionTotal(), pricing.NominationFee(),
		pricing.Discount(), pricing.Total(),
		res.CalendarEventID(), res.ExternalRef(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) ReplaceItems(
	ctx context.Context,
	dbtx db.DBTX,
	reservationID uuid.UUID,
	menus []catalog.MenuSnapshot,
	options []catalog.OptionSnapshot,
) error {
	if _, err := dbtx.Exec(ctx, `DELETE FROM reservation_menu_items WHERE reservation_id = $1`, reservationID); err != nil {
		return infra.WrapRepoErr("failed to delete reservation menu items", err)
	}
	if _, err := dbtx.Exec(ctx, `DELETE FROM reservation_option_items WHERE reservation_id = $1`, reservationID); err != nil {
		return infra.WrapRepoErr("failed to delete reservation option items", err)
	}
	return r.insertItems(ctx, dbtx, reservationID, menus, options)
}

const findForUpdateQuery = `
	SELECT id, tenant_id, store_id, customer_id, customer_name, customer_phone,
		practitioner_id, practitioner_name,
		date, start_time, end_time, lower(period), upper(period), duration_min,
		subtotal, option_total, nomination_fee, discount, total_price,
		status, source, canceled_at, cancel_reason, reminder_sent_at,
		calendar_event_id, external_ref, created_at, updated_at
	FROM reservations
	WHERE tenant_id = $1 AND id = $2
	FOR UPDATE
`

// FindForUpdate locks the row and rehydrates the full aggregate,
// snapshot items included, so callers transition it through the domain
// state machine rather than on raw column values.
func (r *ReservationRepository) FindForUpdate(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID) (*reservation.Reservation, error) {
	var (
		resID, resTenantID             uuid.UUID
		storeID                        *uuid.UUID
		customer                       reservation.Customer
		practitioner                   reservation.Practitioner
		date                           time.Time
		startTime, endTime             string
		periodStart, periodEnd         time.Time
		durationMin                    int32
		subtotal, optionTotal          int32
		nominationFee, discount, total int32
		status, source                 string
		canceledAt, reminderSentAt     *time.Time
		cancelReason                   *string
		calendarEventID, externalRef   *string
		createdAt, updatedAt           time.Time
	)
	err := dbtx.QueryRow(ctx, findForUpdateQuery, tenantID, id).Scan(
		&resID, &resTenantID, &storeID, &customer.ID, &customer.Name, &customer.Phone,
		&practitioner.ID, &practitioner.Name,
		&date, &startTime, &endTime, &periodStart, &periodEnd, &durationMin,
		&subtotal, &optionTotal, &nominationFee, &discount, &total,
		&status, &source, &canceledAt, &cancelReason, &reminderSentAt,
		&calendarEventID, &externalRef, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}

	start, err := reservation.NewTimeOfDay(startTime)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt start_time column", err)
	}
	end, err := reservation.NewTimeOfDay(endTime)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt end_time column", err)
	}
	pricing, err := reservation.NewPricing(subtotal, optionTotal, nominationFee, discount, &total)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt pricing columns", err)
	}

	menus, err := r.menuSnapshots(ctx, dbtx, resID)
	if err != nil {
		return nil, err
	}
	options, err := r.optionSnapshots(ctx, dbtx, resID)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		resID, resTenantID, storeID,
		customer, practitioner,
		reservation.DateOf(date), start, end,
		reservation.ReconstructPeriod(periodStart, periodEnd),
		menus, options, pricing, durationMin,
		reservation.Status(status), reservation.Source(source),
		canceledAt, cancelReason, reminderSentAt,
		calendarEventID, externalRef,
		createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) menuSnapshots(ctx context.Context, dbtx db.DBTX, reservationID uuid.UUID) ([]catalog.MenuSnapshot, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT menu_id, name, price, duration_min, sort_order, is_main
		FROM reservation_menu_items
		WHERE reservation_id = $1
		ORDER BY sort_order`, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation menu items", err)
	}
	defer rows.Close()

	items := make([]catalog.MenuSnapshot, 0, 4)
	for rows.Next() {
		var m catalog.MenuSnapshot
		if err := rows.Scan(&m.MenuID, &m.Name, &m.Price, &m.DurationMin, &m.SortOrder, &m.IsMain); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation menu item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation menu items", err)
	}
	return items, nil
}

func (r *ReservationRepository) optionSnapshots(ctx context.Context, dbtx db.DBTX, reservationID uuid.UUID) ([]catalog.OptionSnapshot, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT option_id, name, price, duration_min, sort_order
		FROM reservation_option_items
		WHERE reservation_id = $1
		ORDER BY sort_order`, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation option items", err)
	}
	defer rows.Close()

	items := make([]catalog.OptionSnapshot, 0, 4)
	for rows.Next() {
		var o catalog.OptionSnapshot
		if err := rows.Scan(&o.OptionID, &o.Name, &o.Price, &o.DurationMin, &o.SortOrder); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation option item", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation option items", err)
	}
	return items, nil
}

const updateStatusQuery = `
	UPDATE reservations SET
		status = $3,
		canceled_at = $4,
		cancel_reason = $5,
		updated_at = now()
	WHERE tenant_id = $1 AND id = $2
`

func (r *ReservationRepository) UpdateStatus(
	ctx context.Context,
	dbtx db.DBTX,
	tenantID, id uuid.UUID,
	status reservation.Status,
	canceledAt *time.Time,
	cancelReason *string,
) error {
	tag, err := dbtx.Exec(ctx, updateStatusQuery, tenantID, id, string(status), canceledAt, cancelReason)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

const setReminderSentQuery = `
	UPDATE reservations SET
		reminder_sent_at = $3,
		updated_at = now()
	WHERE tenant_id = $1 AND id = $2
`

func (r *ReservationRepository) SetReminderSent(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID, at time.Time) error {
	tag, err := dbtx.Exec(ctx, setReminderSentQuery, tenantID, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to set reminder sent", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

const insertMenuItemQuery = `
	INSERT INTO reservation_menu_items (
		reservation_id, menu_id, name, price, duration_min, sort_order, is_main
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const insertOptionItemQuery = `
	INSERT INTO reservation_option_items (
		reservation_id, option_id, name, price, duration_min, sort_order
	) VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *ReservationRepository) insertItems(
	ctx context.Context,
	dbtx db.DBTX,
	reservationID uuid.UUID,
	menus []catalog.MenuSnapshot,
	options []catalog.OptionSnapshot,
) error {
	for _, m := range menus {
		if _, err := dbtx.Exec(ctx, insertMenuItemQuery,
			reservationID, m.MenuID, m.Name, m.Price, m.DurationMin, m.SortOrder, m.IsMain,
		); err != nil {
			return infra.WrapRepoErr("failed to insert reservation menu item", err)
		}
	}
	for _, o := range options {
		if _, err := dbtx.Exec(ctx, insertOptionItemQuery,
			reservationID, o.OptionID, o.Name, o.Price, o.DurationMin, o.SortOrder,
		); err != nil {
			return infra.WrapRepoErr("failed to insert reservation option item", err)
		}
	}
	return nil
}
