package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopcart-app/shopcart-backend/api/controllers"
	"github.com/shopcart-app/shopcart-backend/api/middleware"
	"github.com/shopcart-app/shopcart-backend/internal/accounts"
	"github.com/shopcart-app/shopcart-backend/internal/auth"
	"github.com/shopcart-app/shopcart-backend/internal/catalog"
	"github.com/shopcart-app/shopcart-backend/internal/notifications"
	"github.com/shopcart-app/shopcart-backend/internal/orders"
	"github.com/shopcart-app/shopcart-backend/pkg/auth/session"
	"github.com/shopcart-app/shopcart-backend/pkg/config"
	"github.com/shopcart-app/shopcart-backend/pkg/db"
	"github.com/shopcart-app/shopcart-backend/pkg/logger"
	"github.com/shopcart-app/shopcart-backend/pkg/redis"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth          auth.Service
	Accounts      accounts.Service
	Catalog       catalog.Service
	Orders        orders.Service
	Notifications notifications.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(dbP, redisClient)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			With(middleware.Idempotency(redisClient, logg)).
			Post("/register", controllers.Register(svcs.Auth, logg))
	})

	// Buyers browse without a session.
	r.Get("/api/v1/items/{productId}", controllers.GetItem(svcs.Catalog, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListBuyerOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.Post("/{orderId}/settle", controllers.SettleOrder(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(svcs.Orders, logg))
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole("seller", logg))
			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
				r.Get("/", controllers.ListSellerProducts(svcs.Catalog, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(svcs.Catalog, logg))
				r.Put("/{productId}/inventory", controllers.SetInventory(svcs.Catalog, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListSellerOrders(svcs.Orders, logg))
				r.Post("/{orderId}/ship", controllers.ShipOrder(svcs.Orders, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.ListAccounts(svcs.Accounts, logg))
			r.Get("/{userId}", controllers.GetAccount(svcs.Accounts, logg))
			r.Post("/{userId}/status", controllers.SetAccountStatus(svcs.Accounts, logg))
		})
	})

	return r
}
