package bootstrap

import (
	"salon-reserve/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
