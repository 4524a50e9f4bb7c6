package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/pgconv"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationViewQuery = `
	SELECT id, tenant_id, store_id, customer_id, customer_name, customer_phone,
		practitioner_id, practitioner_name,
		date, start_time, end_time, duration_min,
		subtotal, option_total, nomination_fee, discount, total_price,
		status, source, canceled_at, cancel_reason, reminder_sent_at,
		calendar_event_id, external_ref, created_at, updated_at
	FROM reservations
	WHERE tenant_id = $1 AND id = $2
`

func (r *ReservationReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		v    queries.ReservationView
		date time.Time
	)
	err := r.db.QueryRow(ctx, reservationViewQuery, tenantID, id).Scan(
		&v.ID, &v.TenantID, &v.StoreID, &v.CustomerID, &v.CustomerName, &v.CustomerPhone,
		&v.PractitionerID, &v.PractitionerName,
		&date, &v.StartTime, &v.EndTime, &v.DurationMin,
		&v.Subtotal, &v.OptionTotal, &v.NominationFee, &v.Discount, &v.TotalPrice,
		&v.Status, &v.Source, &v.CanceledAt, &v.CancelReason, &v.ReminderSentAt,
		&v.CalendarEventID, &v.ExternalRef, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	v.Date = date.Format("2006-01-02")

	menus, err := r.menuItems(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := r.optionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	v.MenuItems = menus
	v.OptionItems = options
	return &v, nil
}

func (r *ReservationReadStore) menuItems(ctx context.Context, reservationID uuid.UUID) ([]queries.MenuItemView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT menu_id, name, price, duration_min, sort_order, is_main
		FROM reservation_menu_items
		WHERE reservation_id = $1
		ORDER BY sort_order`, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation menu items", err)
	}
	defer rows.Close()

	items := make([]queries.MenuItemView, 0, 4)
	for rows.Next() {
		var m queries.MenuItemView
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

func (r *ReservationReadStore) optionItems(ctx context.Context, reservationID uuid.UUID) ([]queries.OptionItemView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT option_id, name, price, duration_min, sort_order
		FROM reservation_option_items
		WHERE reservation_id = $1
		ORDER BY sort_order`, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation option items", err)
	}
	defer rows.Close()

	items := make([]queries.OptionItemView, 0, 4)
	for rows.Next() {
		var o queries.OptionItemView
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

// List applies the optional filters as a dynamic WHERE clause; the
// count query reuses the exact same conditions so Total always matches
// the filtered set.
func (r *ReservationReadStore) List(
	ctx context.Context,
	tenantID uuid.UUID,
	filter queries.ListFilter,
	limit, offset int32,
) ([]*queries.ReservationListItem, int64, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.PractitionerID != nil {
		addCondition("practitioner_id = $%d", *filter.PractitionerID)
	}
	if filter.CustomerID != nil {
		addCondition("customer_id = $%d", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		addCondition("date >= $%d::date", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("date <= $%d::date", *filter.DateTo)
	}

	where := strings.Join(conditions, " AND ")

	orderBy := "date ASC, start_time ASC"
	if filter.Sort == queries.SortCreatedDesc {
		orderBy = "created_at DESC, id DESC"
	}

	var total int64
	countQuery := "SELECT count(*) FROM reservations WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count reservations", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, store_id, customer_id, customer_name,
			practitioner_id, practitioner_name,
			date, start_time, end_time, status, total_price, created_at
		FROM reservations
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		where, orderBy, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	items := make([]*queries.ReservationListItem, 0, limit)
	for rows.Next() {
		var (
			item queries.ReservationListItem
			date time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.StoreID, &item.CustomerID, &item.CustomerName,
			&item.PractitionerID, &item.PractitionerName,
			&date, &item.StartTime, &item.EndTime, &item.Status, &item.TotalPrice, &item.CreatedAt,
		); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		item.Date = date.Format("2006-01-02")
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}

	return items, total, nil
}

const statsQuery = `
	SELECT
		count(*) FILTER (WHERE status = 'pending'),
		count(*) FILTER (WHERE status = 'confirmed'),
		count(*) FILTER (WHERE status = 'completed'),
		count(*) FILTER (WHERE status = 'canceled'),
		count(*) FILTER (WHERE status = 'no_show'),
		count(*),
		COALESCE(sum(total_price) FILTER (WHERE status = 'completed'), 0)
	FROM reservations
	WHERE tenant_id = $1 AND date >= $2::date AND date <= $3::date
`

func (r *ReservationReadStore) Stats(ctx context.Context, tenantID uuid.UUID, from, to reservation.Date) (*queries.StatsView, error) {
	var s queries.StatsView
	err := r.db.QueryRow(ctx, statsQuery, tenantID, from.String(), to.String()).Scan(
		&s.Pending, &s.Confirmed, &s.Completed, &s.Canceled, &s.NoShow, &s.Total, &s.Revenue,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load reservation stats", err)
	}
	return &s, nil
}

const bookedSlotsQuery = `
	SELECT start_time, end_time
	FROM reservations
	WHERE tenant_id = $1 AND practitioner_id = $2 AND date = $3::date
		AND status NOT IN ('canceled', 'no_show')
	ORDER BY start_time
`

func (r *ReservationReadStore) BookedSlots(ctx context.Context, tenantID, practitionerID uuid.UUID, date reservation.Date) ([]queries.SlotView, error) {
	rows, err := r.db.Query(ctx, bookedSlotsQuery, tenantID, practitionerID, date.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booked slots", err)
	}
	defer rows.Close()

	slots := make([]queries.SlotView, 0, 16)
	for rows.Next() {
		var s queries.SlotView
		if err := rows.Scan(&s.StartTime, &s.EndTime); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked slot", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booked slots", err)
	}
	return slots, nil
}

// HasConflict mirrors the exclusion constraint predicate: same tenant
// and practitioner, overlapping period, canceled and no-show excluded.
// Half-open wall-clock comparison on the same columns the exclusion
// constraint's period is derived from.
const hasConflictQuery = `
	SELECT EXISTS (
		SELECT 1 FROM reservations
		WHERE tenant_id = $1 AND practitioner_id = $2
			AND date = $3::date
			AND start_time < $5 AND end_time > $4
			AND status NOT IN ('canceled', 'no_show')
			AND ($6::uuid IS NULL OR id <> $6)
	)
`

func (r *ReservationReadStore) HasConflict(
	ctx context.Context,
	tenantID, practitionerID uuid.UUID,
	date reservation.Date,
	start, end reservation.TimeOfDay,
	excludeID *uuid.UUID,
) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, hasConflictQuery, tenantID, practitionerID, date.String(), start.String(), end.String(), excludeID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check reservation conflict", err)
	}
	return exists, nil
}
