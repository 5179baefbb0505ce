package router

import (
	"net/http"
	"time"

	"toko-olahraga/internal/config"
	"toko-olahraga/internal/handlers"
	"toko-olahraga/internal/middleware"
	"toko-olahraga/internal/models"
	"toko-olahraga/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Services is the engine the HTTP API exposes.
type Services struct {
	Accounts *services.AccountService
	Catalog  *services.CatalogService
	Ledger   *services.LedgerService
	Auth     *services.AuthService
}

func SetupRouter(svc Services, cfg config.Config, logger zerolog.Logger) *mux.Router {
	authHandler := handlers.NewAuthHandler(svc.Accounts, svc.Auth, logger)
	userHandler := handlers.NewUserHandler(svc.Accounts, logger)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, logger)
	cartHandler := handlers.NewCartHandler(svc.Ledger, logger)
	transactionHandler := handlers.NewTransactionHandler(svc.Ledger, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger, time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestValidation())

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	authenticated := api.PathPrefix("").Subrouter()
	authenticated.Use(middleware.Authentication(svc.Auth, logger))

	authenticated.HandleFunc("/me", userHandler.Me).Methods("GET")

	authenticated.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET")
	authenticated.HandleFunc("/products", catalogHandler.ListProducts).Methods("GET")
	authenticated.HandleFunc("/products/index/{index:[0-9]+}", catalogHandler.GetProductAt).Methods("GET")
	authenticated.HandleFunc("/products/{id}", catalogHandler.GetProduct).Methods("GET")

	authenticated.HandleFunc("/carts", cartHandler.StartCart).Methods("POST")
	authenticated.HandleFunc("/carts/{id}", cartHandler.GetCart).Methods("GET")
	authenticated.HandleFunc("/carts/{id}", cartHandler.CancelCart).Methods("DELETE")
	authenticated.HandleFunc("/carts/{id}/lines", cartHandler.AddLine).Methods("POST")
	authenticated.HandleFunc("/carts/{id}/lines/{productID}", cartHandler.RemoveLine).Methods("DELETE")
	authenticated.HandleFunc("/carts/{id}/checkout", cartHandler.Checkout).Methods("POST")

	authenticated.HandleFunc("/transactions/history", transactionHandler.GetHistory).Methods("GET")
	authenticated.HandleFunc("/rentals/open", transactionHandler.GetOpenRentals).Methods("GET")
	authenticated.HandleFunc("/rentals/return", transactionHandler.ReturnRental).Methods("POST")

	admin := authenticated.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(string(models.RoleAdmin)))

	admin.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/categories", catalogHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id:[0-9]+}", catalogHandler.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/products", catalogHandler.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", catalogHandler.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", catalogHandler.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/stock", catalogHandler.AdjustStock).Methods("POST")
	admin.HandleFunc("/admin/rentals/open", transactionHandler.GetAllOpenRentals).Methods("GET")
	admin.HandleFunc("/admin/transactions", transactionHandler.GetAllHistory).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
