package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bobalog/bobalog-go/internal/config"
	"github.com/bobalog/bobalog-go/internal/handler"
	"github.com/bobalog/bobalog-go/internal/middleware"
	"github.com/bobalog/bobalog-go/internal/repository"
	"github.com/bobalog/bobalog-go/internal/service"
)

// New builds the full route tree over the given database.
func New(cfg config.Config, db *sql.DB) *chi.Mux {
	userRepo := repository.NewUserRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	purchaseService := service.NewPurchaseService(purchaseRepo)
	queryService := service.NewQueryService(purchaseRepo)

	authHandler := handler.NewAuthHandler(authService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, queryService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/purchases/ranking", purchaseHandler.HandleRanking)
		r.Get("/purchases/by-time/{ownerID}/{window}", purchaseHandler.HandleByTime)
		r.Get("/purchases/by-price/{ownerID}/{direction}", purchaseHandler.HandleByPrice)
		r.Get("/purchases/by-flavour/{ownerID}/{flavour}", purchaseHandler.HandleByFlavour)
		r.Get("/purchases/{ownerID}", purchaseHandler.HandleList)
		r.Get("/purchases/{ownerID}/{purchaseID}", purchaseHandler.HandleGet)
		r.Post("/purchases", purchaseHandler.HandleCreate)
		r.Put("/purchases", purchaseHandler.HandleUpdate)
		r.Delete("/purchases/{ownerID}/{purchaseID}", purchaseHandler.HandleDelete)
	})

	if cfg.Env != "production" {
		devHandler := handler.NewDevToolsHandler(userRepo, purchaseRepo)
		r.Delete("/dev/users", devHandler.HandleClearUsers)
		r.Delete("/dev/purchases", devHandler.HandleClearPurchases)
	}

	return r
}
