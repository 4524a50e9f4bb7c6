package readstore

import (
	"context"

	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/pgconv"
	"salon-reserve/internal/usecase/commands"

	"github.com/google/uuid"
)

type PractitionerReadStore struct {
	db db.DBTX
}

func NewPractitionerReadStore(dbtx db.DBTX) *PractitionerReadStore {
	return &PractitionerReadStore{db: dbtx}
}

func (r *PractitionerReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commands.PractitionerSnapshot, error) {
	var snap commands.PractitionerSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM practitioners WHERE tenant_id = $1 AND id = $2 AND active`,
		tenantID, id,
	).Scan(&snap.ID, &snap.Name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("practitioner not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find practitioner", err)
	}
	return &snap, nil
}

type CustomerReadStore struct {
	db db.DBTX
}

func NewCustomerReadStore(dbtx db.DBTX) *CustomerReadStore {
	return &CustomerReadStore{db: dbtx}
}

func (r *CustomerReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commands.CustomerSnapshot, error) {
	var snap commands.CustomerSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, name, phone FROM customers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&snap.ID, &snap.Name, &snap.Phone)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find customer", err)
	}
	return &snap, nil
}
