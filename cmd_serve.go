package main

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/handlers"
	"github.com/camden-git/communitybackend/importer"
	"github.com/camden-git/communitybackend/repository"
	"github.com/camden-git/communitybackend/services"
	"github.com/camden-git/communitybackend/workers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	if err := database.AutoMigrateModels(a.db); err != nil {
		return err
	}
	store, err := a.mediaStore()
	if err != nil {
		return err
	}

	persons := repository.NewPersonRepository(a.db)
	surnames := repository.NewSurnameRepository(a.db)
	relations := repository.NewRelationRepository(a.db)
	businesses := repository.NewBusinessRepository(a.db)
	searches := repository.NewSearchRepository(a.db)

	log.Info("starting search recorder", "workers", cfg.SearchRecorderWorkers, "queue_size", cfg.SearchRecorderQueueSize)
	recorder := workers.NewSearchRecorder(searches, cfg.SearchRecorderQueueSize, cfg.SearchRecorderWorkers, log)
	defer recorder.Stop()

	im := importer.New(a.db, store, importer.NewKeyedLock(), importer.Options{
		DefaultCountry:        cfg.DefaultCountry,
		CreateMissingSurnames: cfg.CreateMissingSurnames,
	}, log)

	assets, err := handlers.AssetServer(cfg.MediaStoragePath,
		[]string{filepath.Base(cfg.ProfilesPath), filepath.Base(cfg.ThumbnailsPath)}, log)
	if err != nil {
		return err
	}

	if cfg.JWTSecret == "" && cfg.AdminAPIKeyHash == "" {
		log.Warn("no JWT_SECRET or ADMIN_API_KEY_HASH configured; admin routes will reject every request")
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Import:         handlers.NewImportHandler(im, store, filepath.Base(cfg.BugReportsPath), log),
		Tree:           handlers.NewTreeHandler(services.NewFamilyTreeService(persons, surnames, relations, log), log),
		Search:         handlers.NewSearchHandler(services.NewSearchService(businesses, searches, recorder, cfg.SearchPageSize, cfg.SearchMaxPageSize, log), log),
		Business:       handlers.NewBusinessHandler(services.NewBusinessService(businesses), log),
		People:         handlers.NewPeopleHandler(services.NewPeopleService(persons, surnames), log),
		Permissions:    handlers.NewPermissionsHandler(),
		Auth:           handlers.NewAdminAuth(cfg.JWTSecret, cfg.AdminAPIKeyHash, persons, log),
		Assets:         assets,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second, // imports of large books
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr, "database", cfg.DatabasePath, "media", cfg.MediaStoragePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	recorder.Stop()
	log.Info("search recorder stopped", "dropped_events", recorder.Dropped())
	return nil
}
