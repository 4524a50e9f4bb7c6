package readstore

import (
	"context"

	"salon-reserve/internal/domain/policy"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type StoreReadStore struct {
	db db.DBTX
}

func NewStoreReadStore(dbtx db.DBTX) *StoreReadStore {
	return &StoreReadStore{db: dbtx}
}

// Store rows override tenant defaults column by column; a NULL store
// column falls through to the tenant value.
const storePolicyQuery = `
	SELECT
		COALESCE(s.timezone, t.timezone),
		COALESCE(s.slot_duration_min, t.slot_duration_min),
		COALESCE(s.advance_booking_days, t.advance_booking_days),
		COALESCE(s.cancel_deadline_hours, t.cancel_deadline_hours)
	FROM stores s
	JOIN tenants t ON t.id = s.tenant_id
	WHERE s.tenant_id = $1 AND s.id = $2
`

const tenantPolicyQuery = `
	SELECT timezone, slot_duration_min, advance_booking_days, cancel_deadline_hours
	FROM tenants
	WHERE id = $1
`

func (r *StoreReadStore) PolicyFor(ctx context.Context, tenantID uuid.UUID, storeID *uuid.UUID) (*policy.StorePolicy, error) {
	var p policy.StorePolicy
	var err error
	if storeID != nil {
		err = r.db.QueryRow(ctx, storePolicyQuery, tenantID, *storeID).Scan(
			&p.Timezone, &p.SlotDurationMin, &p.AdvanceBookingDays, &p.CancelDeadlineHours,
		)
	} else {
		err = r.db.QueryRow(ctx, tenantPolicyQuery, tenantID).Scan(
			&p.Timezone, &p.SlotDurationMin, &p.AdvanceBookingDays, &p.CancelDeadlineHours,
		)
	}
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("store not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load store policy", err)
	}
	return &p, nil
}
