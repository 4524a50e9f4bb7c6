package commands

import (
	"context"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/policy"

	"github.com/google/uuid"
)

// Read ports consulted by commands before entering the write
// transaction. All are tenant-scoped.

type StoreReads interface {
	// PolicyFor falls back to tenant-level defaults when storeID is nil
	// (a tenant may take reservations not yet assigned to a store).
	PolicyFor(ctx context.Context, tenantID uuid.UUID, storeID *uuid.UUID) (*policy.StorePolicy, error)
}

type CatalogReads interface {
	ActiveMenuItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.MenuItem, error)
	ActiveOptionItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.OptionItem, error)
}

type PractitionerSnapshot struct {
	ID   uuid.UUID
	Name string
}

type PractitionerReads interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PractitionerSnapshot, error)
}

type CustomerSnapshot struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

type CustomerReads interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerSnapshot, error)
}
