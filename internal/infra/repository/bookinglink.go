package repository

import (
	"context"

	"salon-reserve/internal/domain/bookinglink"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type BookingLinkRepository struct{}

func NewBookingLinkRepository() *BookingLinkRepository {
	return &BookingLinkRepository{}
}

const insertBookingLinkQuery = `
	INSERT INTO booking_link_tokens (
		id, tenant_id, store_id, practitioner_id, token, status,
		created_by, created_at, expires_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (r *BookingLinkRepository) Insert(ctx context.Context, dbtx db.DBTX, token *bookinglink.Token) error {
	_, err := dbtx.Exec(ctx, insertBookingLinkQuery,
		token.ID(), token.TenantID(), token.StoreID(), token.PractitionerID(),
		token.Value(), string(token.Status()),
		token.CreatedBy(), token.CreatedAt(), token.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booking link token", err)
	}
	return nil
}

// RevokeActive revokes every active token for the practitioner. A nil
// storeID matches tokens for any store, including tenant-wide ones.
const revokeActiveQuery = `
	UPDATE booking_link_tokens SET status = 'revoked'
	WHERE tenant_id = $1 AND practitioner_id = $2 AND status = 'active'
		AND ($3::uuid IS NULL OR store_id = $3)
`

func (r *BookingLinkRepository) RevokeActive(ctx context.Context, dbtx db.DBTX, tenantID, practitionerID uuid.UUID, storeID *uuid.UUID) (int64, error) {
	tag, err := dbtx.Exec(ctx, revokeActiveQuery, tenantID, practitionerID, storeID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to revoke active booking link tokens", err)
	}
	return tag.RowsAffected(), nil
}

func (r *BookingLinkRepository) Revoke(ctx context.Context, dbtx db.DBTX, tenantID, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE booking_link_tokens SET status = 'revoked' WHERE tenant_id = $1 AND id = $2 AND status = 'active'`,
		tenantID, id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to revoke booking link token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("active booking link token not found", nil, infra.KindNotFound)
	}
	return nil
}

const hasActiveQuery = `
	SELECT EXISTS (
		SELECT 1 FROM booking_link_tokens
		WHERE tenant_id = $1 AND practitioner_id = $2 AND status = 'active'
			AND ($3::uuid IS NULL OR store_id = $3)
	)
`

func (r *BookingLinkRepository) HasActive(ctx context.Context, dbtx db.DBTX, tenantID, practitionerID uuid.UUID, storeID *uuid.UUID) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, hasActiveQuery, tenantID, practitionerID, storeID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check active booking link tokens", err)
	}
	return exists, nil
}

func (r *BookingLinkRepository) TokenValueExists(ctx context.Context, dbtx db.DBTX, token string) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM booking_link_tokens WHERE token = $1)`,
		token,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check token uniqueness", err)
	}
	return exists, nil
}
