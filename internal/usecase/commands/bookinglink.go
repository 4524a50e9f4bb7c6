package commands

import (
	"context"
	"errors"
	"time"

	"salon-reserve/internal/domain/bookinglink"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/pkg/clock"
	"salon-reserve/internal/pkg/errs"
	"salon-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingLinkNotFound = errs.New("booking link not found")
	ErrBookingLinkExists   = errs.New("an active booking link already exists for this practitioner")
	ErrTokenGeneration     = errs.New("failed to generate a unique token")
)

// tokenRetryLimit bounds the collision loop; with a 62^32 value space a
// single retry is already overwhelmingly unlikely.
const tokenRetryLimit = 3

type CreateBookingLinkInput struct {
	PractitionerID uuid.UUID
	StoreID        *uuid.UUID
	CreatedBy      uuid.UUID
	// Reissue revokes every active link for the practitioner before
	// inserting the new one, all in one transaction.
	Reissue bool
	// AllowMultiple skips the single-active-link check for tenants that
	// hand out one link per campaign.
	AllowMultiple bool
	ExpiresAt     *time.Time
}

type CreateBookingLinkResult struct {
	ID           uuid.UUID
	Token        string
	RevokedCount int64
}

type BookingLinkCommands interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateBookingLinkInput) (*CreateBookingLinkResult, error)
	Revoke(ctx context.Context, tenantID, id uuid.UUID) error
}

type bookingLinkCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingLinkCommands(uow shared.UnitOfWork, clk clock.Clock) BookingLinkCommands {
	return &bookingLinkCommandsImpl{uow: uow, clock: clk}
}

func (c *bookingLinkCommandsImpl) Create(
	ctx context.Context,
	tenantID uuid.UUID,
	input CreateBookingLinkInput,
) (*CreateBookingLinkResult, error) {
	var result CreateBookingLinkResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		links := tx.BookingLinks()

		if input.Reissue {
			revoked, revErr := links.RevokeActive(ctx, tx.DB(), tenantID, input.PractitionerID, input.StoreID)
			if revErr != nil {
				return revErr
			}
			result.RevokedCount = revoked
		} else if !input.AllowMultiple {
			active, hasErr := links.HasActive(ctx, tx.DB(), tenantID, input.PractitionerID, input.StoreID)
			if hasErr != nil {
				return hasErr
			}
			if active {
				return ErrBookingLinkExists
			}
		}

		token, genErr := c.generateUnique(ctx, tx, tenantID, input)
		if genErr != nil {
			return genErr
		}

		if insErr := links.Insert(ctx, tx.DB(), token); insErr != nil {
			return insErr
		}

		result.ID = token.ID()
		result.Token = token.Value()
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingLinkExists), errors.Is(err, ErrTokenGeneration):
			return nil, err
		case errors.Is(err, bookinglink.ErrMissingPractitioner):
			return nil, errs.Mark(err, ErrDomainValidation)
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrPractitionerNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrTokenGeneration
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &result, nil
}

func (c *bookingLinkCommandsImpl) Revoke(ctx context.Context, tenantID, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.BookingLinks().Revoke(ctx, tx.DB(), tenantID, id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingLinkNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *bookingLinkCommandsImpl) generateUnique(
	ctx context.Context,
	tx shared.Tx,
	tenantID uuid.UUID,
	input CreateBookingLinkInput,
) (*bookinglink.Token, error) {
	for i := 0; i < tokenRetryLimit; i++ {
		token, err := bookinglink.NewToken(tenantID, input.StoreID, input.PractitionerID, input.CreatedBy, input.ExpiresAt, c.clock.Now())
		if err != nil {
			return nil, err
		}
		exists, err := tx.BookingLinks().TokenValueExists(ctx, tx.DB(), token.Value())
		if err != nil {
			return nil, err
		}
		if !exists {
			return token, nil
		}
	}
	return nil, ErrTokenGeneration
}
