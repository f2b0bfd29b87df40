package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"primariaPortal/cmd/app"
	"primariaPortal/internal/config"
	"primariaPortal/internal/logger"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))
	logger.Infof("Configurație încărcată: %v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatalf("Pornirea aplicației a eșuat: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Errorf("eroare la închiderea bazei de date: %v", err)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           a.Handler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Infof("Server pornit pe %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Eroare la pornirea serverului: %v", err)
		}
	}()

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	logger.Info("Oprire în curs...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("eroare la oprirea serverului: %v", err)
	}
}
