package components

import (
	"salon-reserve/internal/handler"
	"salon-reserve/internal/handler/api"
	"salon-reserve/internal/handler/middleware"
	"salon-reserve/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewBookingLinkHandler,
		func(cfg config.Config) *middleware.AuthMiddleware {
			return middleware.NewAuthMiddleware(cfg.JWT)
		},
	),
	fx.Invoke(handler.NewRouter),
)
