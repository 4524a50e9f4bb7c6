package readstore

import (
	"context"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

const activeMenuItemsQuery = `
	SELECT id, tenant_id, name, price, duration_min, active
	FROM menu_items
	WHERE tenant_id = $1 AND active AND id = ANY($2)
`

func (r *CatalogReadStore) ActiveMenuItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, activeMenuItemsQuery, tenantID, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load menu items", err)
	}
	defer rows.Close()

	items := make([]catalog.MenuItem, 0, len(ids))
	for rows.Next() {
		var m catalog.MenuItem
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.Price, &m.DurationMin, &m.Active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan menu item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate menu items", err)
	}
	return items, nil
}

const activeOptionItemsQuery = `
	SELECT id, tenant_id, name, price, duration_min, active
	FROM option_items
	WHERE tenant_id = $1 AND active AND id = ANY($2)
`

func (r *CatalogReadStore) ActiveOptionItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.OptionItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, activeOptionItemsQuery, tenantID, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load option items", err)
	}
	defer rows.Close()

	items := make([]catalog.OptionItem, 0, len(ids))
	for rows.Next() {
		var o catalog.OptionItem
		if err := rows.Scan(&o.ID, &o.TenantID, &o.Name, &o.Price, &o.DurationMin, &o.Active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan option item", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate option items", err)
	}
	return items, nil
}
