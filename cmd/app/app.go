package app

import (
	"fmt"
	"net/http"

	"primariaPortal/internal/auth"
	"primariaPortal/internal/config"
	"primariaPortal/internal/database"
	handlers "primariaPortal/internal/handler"
	"primariaPortal/internal/repository"
	"primariaPortal/internal/router"
	"primariaPortal/internal/service"
	"primariaPortal/internal/storage"
)

// App holds everything the binaries share once the process is wired.
type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Storage  storage.Storage
	Gate     *auth.Gate
}

// New connects the database and the storage backend and builds the services.
func New(cfg *config.Config) (*App, error) {
	gate, err := auth.NewGate(cfg.Auth)
	if err != nil {
		return nil, err
	}

	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg)
	if err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("nu s-a putut inițializa stocarea: %w", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, gate, store, db)

	return &App{DB: db, Repo: repo, Services: services, Storage: store, Gate: gate}, nil
}

func (a *App) Handler(cfg *config.Config) http.Handler {
	return router.New(handlers.NewHandlers(a.Services, a.Storage, cfg), a.Gate, cfg)
}

func (a *App) Close() error {
	return a.DB.CloseDB()
}
