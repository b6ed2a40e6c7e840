package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"arena-backend/api"
	"arena-backend/config"
	"arena-backend/database"
	"arena-backend/events"
	"arena-backend/repository"
	"arena-backend/seed"
	"arena-backend/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting arena backend...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	eventBus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.AccountCreatedEvent); ok {
			log.WithFields(log.Fields{
				"accountID": e.AccountID,
				"userID":    e.UserID,
				"arena":     e.Arena,
			}).Info("Account provisioned")
		}
	})

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	accountService := service.NewAccountService(uowFactory, cfg.StartingBalance)
	// every new user identity gets exactly one account
	userService.RegisterPostSaveHook(accountService.UserPostSaveHook())

	server := api.NewServer(accountService, cfg.Environment)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr": cfg.ListenAddr,
			"mode": cfg.Environment,
		}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		db.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// RunPopulate upserts count generated test players
func RunPopulate(ctx context.Context, count int) error {
	userService, accountService, _, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return seed.Populate(ctx, userService, accountService, count)
}

// RunClear deletes all accounts and generated test users
func RunClear(ctx context.Context) error {
	_, _, uowFactory, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return seed.Clear(ctx, uowFactory)
}

// buildServices wires the service graph for the admin subcommands
func buildServices(ctx context.Context) (service.UserService, service.AccountService, service.UnitOfWorkFactory, func(), error) {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, events.NewBus())
	userService := service.NewUserService(uowFactory)
	accountService := service.NewAccountService(uowFactory, cfg.StartingBalance)
	userService.RegisterPostSaveHook(accountService.UserPostSaveHook())

	return userService, accountService, uowFactory, db.Close, nil
}
