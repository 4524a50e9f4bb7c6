package repository

import (
	"context"
	"time"

	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/pgconv"
	"salon-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// An expired row is reclaimed in place: the conditional DO UPDATE
// resets it to a fresh 'processing' claim, so RowsAffected stays the
// single signal for "this call holds the key". A live row matches
// neither arm and affects zero rows.
const tryInsertIdempotencyQuery = `
	INSERT INTO idempotency_keys (key, actor_id, endpoint, request_hash, status, expires_at)
	VALUES ($1, $2, $3, $4, 'processing', $5)
	ON CONFLICT (key, actor_id) DO UPDATE SET
		endpoint = EXCLUDED.endpoint,
		request_hash = EXCLUDED.request_hash,
		status = 'processing',
		response_hash = NULL,
		result_reservation_id = NULL,
		expires_at = EXCLUDED.expires_at
	WHERE idempotency_keys.expires_at < now()
`

func (r *IdempotencyRepository) TryInsert(
	ctx context.Context,
	dbtx db.DBTX,
	key, actorID uuid.UUID,
	endpoint, requestHash string,
	expiresAt time.Time,
) (bool, error) {
	tag, err := dbtx.Exec(ctx, tryInsertIdempotencyQuery, key, actorID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

const getIdempotencyQuery = `
	SELECT key, actor_id, status, request_hash, result_reservation_id, expires_at
	FROM idempotency_keys
	WHERE key = $1 AND actor_id = $2
`

func (r *IdempotencyRepository) Get(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := dbtx.QueryRow(ctx, getIdempotencyQuery, key, actorID).Scan(
		&rec.Key, &rec.ActorID, &rec.Status, &rec.RequestHash, &rec.ResultReservationID, &rec.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	// Expired keys are treated as never claimed.
	if time.Now().After(rec.ExpiresAt) {
		return nil, infra.WrapRepoErr("idempotency key expired", nil, infra.KindNotFound)
	}
	return &rec, nil
}

const completeIdempotencyQuery = `
	UPDATE idempotency_keys SET
		status = 'completed',
		response_hash = $3,
		result_reservation_id = $4
	WHERE key = $1 AND actor_id = $2
`

func (r *IdempotencyRepository) UpdateStatusCompleted(
	ctx context.Context,
	dbtx db.DBTX,
	key, actorID uuid.UUID,
	responseHash string,
	resultReservationID uuid.UUID,
) error {
	if _, err := dbtx.Exec(ctx, completeIdempotencyQuery, key, actorID, responseHash, resultReservationID); err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX) (int64, error) {
	tag, err := dbtx.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < now()`)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
