package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrriyous/storefront-backend/api/controllers"
	"github.com/mrriyous/storefront-backend/api/middleware"
	cartsvc "github.com/mrriyous/storefront-backend/internal/cart"
	"github.com/mrriyous/storefront-backend/internal/catalog"
	checkoutsvc "github.com/mrriyous/storefront-backend/internal/checkout"
	transactionsvc "github.com/mrriyous/storefront-backend/internal/transactions"
	"github.com/mrriyous/storefront-backend/pkg/config"
	"github.com/mrriyous/storefront-backend/pkg/db"
	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	transactionsService transactionsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Service.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/search", controllers.ProductSearch(catalogService, logg))
			r.Get("/{slug}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.UserContext(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", controllers.TransactionList(transactionsService, logg))
				r.Get("/{number}", controllers.TransactionDetail(transactionsService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.UserContext(logg))
		r.Post("/products", controllers.ProductCreate(catalogService, logg))
	})

	return r
}
