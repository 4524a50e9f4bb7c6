package repository

import (
	"context"
	"time"

	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

const createJobQuery = `
	INSERT INTO notification_jobs (tenant_id, kind, topic, payload, status, run_at)
	VALUES ($1, $2, $3, $4, 'pending', $5)
`

func (r *NotificationRepository) CreateJob(
	ctx context.Context,
	dbtx db.DBTX,
	tenantID uuid.UUID,
	kind, topic string,
	payload []byte,
	runAt time.Time,
) error {
	if _, err := dbtx.Exec(ctx, createJobQuery, tenantID, kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
