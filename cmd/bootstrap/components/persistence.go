package components

import (
	"salon-reserve/internal/infra/db"
	"salon-reserve/internal/infra/readstore"
	"salon-reserve/internal/infra/repository"
	"salon-reserve/internal/infra/uow"
	"salon-reserve/internal/usecase/commands"
	"salon-reserve/internal/usecase/queries"
	"salon-reserve/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Store policy
		fx.Annotate(
			readstore.NewStoreReadStore,
			fx.As(new(commands.StoreReads)),
		),
		// Catalog
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(commands.CatalogReads)),
		),
		// Practitioner
		fx.Annotate(
			readstore.NewPractitionerReadStore,
			fx.As(new(commands.PractitionerReads)),
		),
		// Customer
		fx.Annotate(
			readstore.NewCustomerReadStore,
			fx.As(new(commands.CustomerReads)),
		),
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		// Booking link
		fx.Annotate(
			readstore.NewBookingLinkReadStore,
			fx.As(new(queries.BookingLinkReadStore)),
			fx.As(new(queries.LastUsedRecorder)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Idempotency (claimed before, completed inside, the write tx)
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyRepository)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
