package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"salon-reserve/internal/domain/catalog"
	"salon-reserve/internal/domain/policy"
	"salon-reserve/internal/domain/reservation"
	"salon-reserve/internal/infra"
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/pkg/clock"
	"salon-reserve/internal/pkg/errs"
	"salon-reserve/internal/usecase/queries"
	"salon-reserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrPractitionerNotFound    = errs.New("practitioner not found")
	ErrCustomerNotFound        = errs.New("customer not found")
	ErrStoreNotFound           = errs.New("store not found")
	ErrMenuItemNotFound        = errs.New("menu item not found")
	ErrOptionItemNotFound      = errs.New("option item not found")
	ErrReservationConflict     = errs.New("reservation conflict")
	ErrTerminalStatus          = errs.New("reservation is in a terminal status")
	ErrInvalidTransition       = errs.New("invalid status transition")
	ErrAdvanceWindowExceeded   = errs.New("date is beyond the advance booking window")
	ErrCancelDeadlinePassed    = errs.New("cancellation deadline has passed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDuplicateRequest        = errs.New("duplicate request with different parameters")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const createReservationEndpoint = "POST /reservations"

type ReservationInput struct {
	StoreID         *uuid.UUID
	CustomerID      uuid.UUID
	PractitionerID  uuid.UUID
	Date            string
	StartTime       string
	EndTime         *string
	MenuIDs         []uuid.UUID
	OptionIDs       []uuid.UUID
	NominationFee   int32
	Discount        int32
	TotalPrice      *int32
	Source          string
	CalendarEventID *string
	ExternalRef     *string
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationCommands interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, input ReservationInput, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input ReservationInput) (*queries.ReservationView, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, reason *string) error
	Cancel(ctx context.Context, tenantID, id uuid.UUID, reason *string, enforceDeadline bool) error
	MarkReminderSent(ctx context.Context, tenantID, id uuid.UUID) error
}

type reservationCommandsImpl struct {
	uow               shared.UnitOfWork
	idempotencyRepo   shared.IdempotencyRepository
	storeReads        StoreReads
	catalogReads      CatalogReads
	practitionerReads PractitionerReads
	customerReads     CustomerReads
	reservationViews  queries.ReservationQueries
	factory           *reservation.Factory
	clock             clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	idempotencyRepo shared.IdempotencyRepository,
	storeReads StoreReads,
	catalogReads CatalogReads,
	practitionerReads PractitionerReads,
	customerReads CustomerReads,
	reservationViews queries.ReservationQueries,
	factory *reservation.Factory,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:               uow,
		idempotencyRepo:   idempotencyRepo,
		storeReads:        storeReads,
		catalogReads:      catalogReads,
		practitionerReads: practitionerReads,
		customerReads:     customerReads,
		reservationViews:  reservationViews,
		factory:           factory,
		clock:             clk,
	}
}

func (c *reservationCommandsImpl) Create(
	ctx context.Context,
	tenantID, actorID uuid.UUID,
	input ReservationInput,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	requestHash := calculateRequestHash(input)
	expiresAt := c.clock.Now().Add(24 * time.Hour)

	replayed, err := c.handleIdempotency(ctx, tenantID, idempotencyKey, actorID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateReservationResult{Reservation: replayed, IsReplayed: true}, nil
	}

	params, pol, err := c.resolveParams(ctx, tenantID, input)
	if err != nil {
		return nil, err
	}

	if err := policy.ValidateAdvanceBooking(params.Date, *pol, c.clock.Now()); err != nil {
		if errors.Is(err, policy.ErrAdvanceWindowExceeded) {
			return nil, ErrAdvanceWindowExceeded
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	entity, err := c.factory.CreateReservation(params)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var reservationID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Reservations().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return createErr
		}
		reservationID = id

		if jobErr := createReservationJob(ctx, tx, tenantID, id, "reservation_created", c.clock.Now()); jobErr != nil {
			return jobErr
		}

		return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, actorID, calculateIDHash(id), id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrReservationConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.reservationViews.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateReservationResult{Reservation: view, IsReplayed: false}, nil
}

func (c *reservationCommandsImpl) Update(
	ctx context.Context,
	tenantID, id uuid.UUID,
	input ReservationInput,
) (*queries.ReservationView, error) {
	params, _, err := c.resolveParams(ctx, tenantID, input)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, lockErr := tx.Reservations().FindForUpdate(ctx, tx.DB(), tenantID, id)
		if lockErr != nil {
			return lockErr
		}
		if current.Status().IsTerminal() {
			return ErrTerminalStatus
		}

		rebuilt, rebuildErr := c.factory.RebuildReservation(current.ID(), current.Status(), params)
		if rebuildErr != nil {
			return errs.Mark(rebuildErr, ErrDomainValidation)
		}

		if updateErr := tx.Reservations().Update(ctx, tx.DB(), rebuilt); updateErr != nil {
			return updateErr
		}
		// Snapshot rows are replaced in the same transaction; a failed
		// replace rolls back the row update too.
		return tx.Reservations().ReplaceItems(ctx, tx.DB(), current.ID(), rebuilt.MenuItems(), rebuilt.OptionItems())
	})
	if err != nil {
		return nil, c.mapWriteErr(err)
	}

	view, err := c.reservationViews.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *reservationCommandsImpl) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string, reason *string) error {
	to := reservation.Status(status)
	if !to.IsValid() {
		return ErrInvalidTransition
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, lockErr := tx.Reservations().FindForUpdate(ctx, tx.DB(), tenantID, id)
		if lockErr != nil {
			return lockErr
		}
		if trErr := current.Transition(to, reason, c.clock.Now()); trErr != nil {
			return trErr
		}

		if updErr := tx.Reservations().UpdateStatus(ctx, tx.DB(), tenantID, id, current.Status(), current.CanceledAt(), current.CancelReason()); updErr != nil {
			return updErr
		}
		if current.Status() == reservation.StatusCanceled {
			return createReservationJob(ctx, tx, tenantID, id, "reservation_canceled", c.clock.Now())
		}
		return nil
	})
	return c.mapWriteErr(err)
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason *string, enforceDeadline bool) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, lockErr := tx.Reservations().FindForUpdate(ctx, tx.DB(), tenantID, id)
		if lockErr != nil {
			return lockErr
		}
		if trErr := current.Transition(reservation.StatusCanceled, reason, c.clock.Now()); trErr != nil {
			return trErr
		}

		if enforceDeadline {
			pol, polErr := c.storeReads.PolicyFor(ctx, tenantID, current.StoreID())
			if polErr != nil {
				return polErr
			}
			if dlErr := policy.ValidateCancelDeadline(current.Date(), current.StartTime(), *pol, c.clock.Now()); dlErr != nil {
				return errs.Mark(dlErr, ErrCancelDeadlinePassed)
			}
		}

		if updErr := tx.Reservations().UpdateStatus(ctx, tx.DB(), tenantID, id, current.Status(), current.CanceledAt(), current.CancelReason()); updErr != nil {
			return updErr
		}
		return createReservationJob(ctx, tx, tenantID, id, "reservation_canceled", c.clock.Now())
	})
	return c.mapWriteErr(err)
}

// MarkReminderSent records the reminder dispatch instant. Terminal
// reservations no longer receive reminders.
func (c *reservationCommandsImpl) MarkReminderSent(ctx context.Context, tenantID, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, lockErr := tx.Reservations().FindForUpdate(ctx, tx.DB(), tenantID, id)
		if lockErr != nil {
			return lockErr
		}
		if current.Status().IsTerminal() {
			return ErrTerminalStatus
		}
		current.MarkReminderSent(c.clock.Now())
		return tx.Reservations().SetReminderSent(ctx, tx.DB(), tenantID, id, *current.ReminderSentAt())
	})
	return c.mapWriteErr(err)
}

// resolveParams loads every external dependency of a reservation write
// (policy, catalog, customer, practitioner) and converts the raw input
// into validated domain parameters.
func (c *reservationCommandsImpl) resolveParams(
	ctx context.Context,
	tenantID uuid.UUID,
	input ReservationInput,
) (reservation.NewReservationParams, *policy.StorePolicy, error) {
	var empty reservation.NewReservationParams

	date, err := reservation.NewDate(input.Date)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrDomainValidation)
	}
	start, err := reservation.NewTimeOfDay(input.StartTime)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrDomainValidation)
	}
	var end *reservation.TimeOfDay
	if input.EndTime != nil {
		e, endErr := reservation.NewTimeOfDay(*input.EndTime)
		if endErr != nil {
			return empty, nil, errs.Mark(endErr, ErrDomainValidation)
		}
		end = &e
	}

	pol, err := c.storeReads.PolicyFor(ctx, tenantID, input.StoreID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return empty, nil, ErrStoreNotFound
		}
		return empty, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	loc, err := pol.Location()
	if err != nil {
		return empty, nil, errs.Mark(err, ErrDomainValidation)
	}

	practitioner, err := c.practitionerReads.FindByID(ctx, tenantID, input.PractitionerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return empty, nil, ErrPractitionerNotFound
		}
		return empty, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	customer, err := c.customerReads.FindByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return empty, nil, ErrCustomerNotFound
		}
		return empty, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	menuItems, err := c.catalogReads.ActiveMenuItems(ctx, tenantID, input.MenuIDs)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	menus, err := catalog.ResolveMenuSnapshots(menuItems, input.MenuIDs)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrMenuItemNotFound)
	}

	optionItems, err := c.catalogReads.ActiveOptionItems(ctx, tenantID, input.OptionIDs)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	options, err := catalog.ResolveOptionSnapshots(optionItems, input.OptionIDs)
	if err != nil {
		return empty, nil, errs.Mark(err, ErrOptionItemNotFound)
	}

	return reservation.NewReservationParams{
		TenantID:        tenantID,
		StoreID:         input.StoreID,
		Customer:        reservation.Customer{ID: customer.ID, Name: customer.Name, Phone: customer.Phone},
		Practitioner:    reservation.Practitioner{ID: practitioner.ID, Name: practitioner.Name},
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		MenuItems:       menus,
		OptionItems:     options,
		NominationFee:   input.NominationFee,
		Discount:        input.Discount,
		TotalPrice:      input.TotalPrice,
		Source:          reservation.Source(input.Source),
		Timezone:        loc,
		CalendarEventID: input.CalendarEventID,
		ExternalRef:     input.ExternalRef,
	}, pol, nil
}

// handleIdempotency returns a non-nil view when the key already
// completed and the stored result should be replayed. A nil view with
// nil error means this call claimed the key and must proceed.
func (c *reservationCommandsImpl) handleIdempotency(
	ctx context.Context,
	tenantID uuid.UUID,
	key, actorID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.ReservationView, error) {
	var inserted bool
	var record *shared.IdempotencyRecord
	err := c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var insErr error
		inserted, insErr = c.idempotencyRepo.TryInsert(ctx, dbtx, key, actorID, createReservationEndpoint, requestHash, expiresAt)
		if insErr != nil {
			return insErr
		}
		if inserted {
			return nil
		}
		var getErr error
		record, getErr = c.idempotencyRepo.Get(ctx, dbtx, key, actorID)
		return getErr
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		return nil, nil
	}

	switch record.Status {
	case "completed":
		if record.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		return c.reservationViews.GetByID(ctx, tenantID, *record.ResultReservationID)

	case "processing":
		if record.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *reservationCommandsImpl) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrTerminalStatus),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrCancelDeadlinePassed),
		errors.Is(err, ErrDomainValidation):
		return err
	case errors.Is(err, reservation.ErrTerminalStatus):
		return ErrTerminalStatus
	case errors.Is(err, reservation.ErrInvalidTransition):
		return ErrInvalidTransition
	}
	if infra.IsKind(err, infra.KindConflict) {
		return ErrReservationConflict
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrReservationNotFound
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func createReservationJob(ctx context.Context, tx shared.Tx, tenantID, reservationID uuid.UUID, topic string, runAt time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"type":           topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), tenantID, "line", topic, payload, runAt)
}

func calculateRequestHash(input ReservationInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
