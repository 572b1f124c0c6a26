package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sewnstudio/atelier-backend/api/controllers"
	"github.com/sewnstudio/atelier-backend/api/middleware"
	"github.com/sewnstudio/atelier-backend/internal/auth"
	cartsvc "github.com/sewnstudio/atelier-backend/internal/cart"
	"github.com/sewnstudio/atelier-backend/internal/catalog"
	checkoutsvc "github.com/sewnstudio/atelier-backend/internal/checkout"
	"github.com/sewnstudio/atelier-backend/internal/measurements"
	"github.com/sewnstudio/atelier-backend/internal/orders"
	"github.com/sewnstudio/atelier-backend/pkg/auth/session"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/redis"
)

// NewRouter wires the HTTP surface: public auth and catalog, the session
// scoped shopping endpoints, and the admin subtree.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	measurementsService measurements.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/guest", controllers.AuthGuest(authService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/items", controllers.CatalogListItems(catalogService, logg))
		r.Get("/items/{itemID}", controllers.CatalogGetItem(catalogService, logg))
		r.Get("/fabrics", controllers.CatalogListFabrics(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/measurements", func(r chi.Router) {
			r.Get("/", controllers.MeasurementsList(measurementsService, logg))
			r.Get("/default", controllers.MeasurementsGetDefault(measurementsService, logg))
			r.Get("/{profileID}", controllers.MeasurementsGet(measurementsService, logg))
			r.Post("/", controllers.MeasurementsCreate(measurementsService, logg))
			r.Put("/{profileID}", controllers.MeasurementsUpdate(measurementsService, logg))
			r.Delete("/{profileID}", controllers.MeasurementsDelete(measurementsService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Put("/items/{index}/quantity", controllers.CartSetQuantity(cartService, logg))
			r.Delete("/items/{index}", controllers.CartRemoveLine(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.With(middleware.RequireAccount(logg)).Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAccount(logg))
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderID}", controllers.OrdersGet(ordersService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))

			r.Route("/catalog", func(r chi.Router) {
				r.Post("/items", controllers.AdminCreateItem(catalogService, logg))
				r.Put("/items/{itemID}", controllers.AdminUpdateItem(catalogService, logg))
				r.Delete("/items/{itemID}", controllers.AdminDeactivateItem(catalogService, logg))
				r.Get("/fabrics", controllers.AdminListFabrics(catalogService, logg))
				r.Post("/fabrics", controllers.AdminCreateFabric(catalogService, logg))
				r.Put("/fabrics/{fabricID}", controllers.AdminSetFabricActive(catalogService, logg))
			})

			r.Post("/orders/{orderID}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
		})
	})

	return r
}
