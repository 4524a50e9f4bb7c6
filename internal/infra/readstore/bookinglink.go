package readstore

import (
	"context"
	"time"

	"salon-reserve/internal/domain/bookinglink"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/pgconv"
	"salon-reserve/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingLinkReadStore struct {
	db db.DBTX
}

func NewBookingLinkReadStore(dbtx db.DBTX) *BookingLinkReadStore {
	return &BookingLinkReadStore{db: dbtx}
}

const findByTokenQuery = `
	SELECT id, tenant_id, store_id, practitioner_id, token, status,
		created_by, created_at, last_used_at, expires_at
	FROM booking_link_tokens
	WHERE token = $1
`

func (r *BookingLinkReadStore) FindByToken(ctx context.Context, token string) (*bookinglink.Token, error) {
	var (
		id, tenantID, practitionerID, createdBy uuid.UUID
		storeID                                 *uuid.UUID
		value, status                           string
		createdAt                               time.Time
		lastUsedAt, expiresAt                   *time.Time
	)
	err := r.db.QueryRow(ctx, findByTokenQuery, token).Scan(
		&id, &tenantID, &storeID, &practitionerID, &value, &status,
		&createdBy, &createdAt, &lastUsedAt, &expiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking link token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking link token", err)
	}

	return bookinglink.ReconstructToken(
		id, tenantID, storeID, practitionerID, value,
		bookinglink.Status(status), createdBy, createdAt, lastUsedAt, expiresAt,
	), nil
}

const tenantLineQuery = `
	SELECT id, tenant_key, line_mode, line_channel_id, line_channel_secret
	FROM tenants
	WHERE id = $1
`

func (r *BookingLinkReadStore) TenantLine(ctx context.Context, tenantID uuid.UUID) (*queries.TenantLineView, error) {
	var (
		view              queries.TenantLineView
		channelID, secret *string
	)
	err := r.db.QueryRow(ctx, tenantLineQuery, tenantID).Scan(
		&view.TenantID, &view.TenantKey, &view.LineMode, &channelID, &secret,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("tenant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load tenant line config", err)
	}
	view.Channel = toChannel(channelID, secret)
	return &view, nil
}

func (r *BookingLinkReadStore) StoreLine(ctx context.Context, tenantID, storeID uuid.UUID) (*bookinglink.LineChannel, error) {
	var channelID, secret *string
	err := r.db.QueryRow(ctx,
		`SELECT line_channel_id, line_channel_secret FROM stores WHERE tenant_id = $1 AND id = $2`,
		tenantID, storeID,
	).Scan(&channelID, &secret)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("store not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load store line config", err)
	}
	return toChannel(channelID, secret), nil
}

func (r *BookingLinkReadStore) PractitionerLine(ctx context.Context, tenantID, practitionerID uuid.UUID) (*bookinglink.LineChannel, error) {
	var channelID, secret *string
	err := r.db.QueryRow(ctx,
		`SELECT line_channel_id, line_channel_secret FROM practitioners WHERE tenant_id = $1 AND id = $2`,
		tenantID, practitionerID,
	).Scan(&channelID, &secret)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("practitioner not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load practitioner line config", err)
	}
	return toChannel(channelID, secret), nil
}

// TouchLastUsed runs on the pool with its own context; resolution paths
// never block on it.
func (r *BookingLinkReadStore) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE booking_link_tokens SET last_used_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record booking link usage", err)
	}
	return nil
}

// A half-configured channel (id without secret) counts as absent so the
// fallback chain keeps walking.
func toChannel(channelID, secret *string) *bookinglink.LineChannel {
	if channelID == nil || secret == nil || *channelID == "" || *secret == "" {
		return nil
	}
	return &bookinglink.LineChannel{ChannelID: *channelID, ChannelSecret: *secret}
}
