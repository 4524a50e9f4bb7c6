package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"salon-reserve/internal/handler/api"
	"salon-reserve/internal/handler/middleware"
	"salon-reserve/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	bookingLinkHandler *api.BookingLinkHandler,
	authMiddleware *middleware.AuthMiddleware,
	rdb *redis.Client,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, reservationHandler, bookingLinkHandler, authMiddleware, rdb)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	bookingLinkHandler *api.BookingLinkHandler,
	authMiddleware *middleware.AuthMiddleware,
	rdb *redis.Client,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Public resolution is unauthenticated and rate limited per client IP.
	public := engine.Group("/public")
	public.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb))
	{
		addRoutes(public, []route{
			{Method: http.MethodGet, Path: "/booking-links/:token", Handler: bookingLinkHandler.Resolve},
		})
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		reservations := apiGroup.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.List},
				{Method: http.MethodGet, Path: "/stats", Handler: reservationHandler.Stats},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: reservationHandler.Update},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: reservationHandler.UpdateStatus},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/reminder", Handler: reservationHandler.MarkReminderSent},
			})
		}

		practitioners := apiGroup.Group("/practitioners")
		{
			addRoutes(practitioners, []route{
				{Method: http.MethodGet, Path: "/:id/slots", Handler: reservationHandler.BookedSlots},
				{Method: http.MethodGet, Path: "/:id/conflict", Handler: reservationHandler.HasConflict},
			})
		}

		bookingLinks := apiGroup.Group("/booking-links")
		bookingLinks.Use(authMiddleware.RequireRoleAtLeast(middleware.RoleAdmin))
		{
			addRoutes(bookingLinks, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingLinkHandler.Create},
				{Method: http.MethodPost, Path: "/:id/revoke", Handler: bookingLinkHandler.Revoke},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
