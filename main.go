package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/config"
	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/media"
)

// app is the state shared by every subcommand.
type app struct {
	cfg config.Config
	log *logger.Logger
	db  *gorm.DB
}

func loadApp() (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	db, err := database.InitGormDB(cfg.DatabasePath, database.GormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &app{cfg: cfg, log: l, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.log.Sync()
}

func (a *app) mediaStore() (*media.LocalStorage, error) {
	subDirs := map[media.AssetType]string{
		media.AssetTypeProfile:   filepath.Base(a.cfg.ProfilesPath),
		media.AssetTypeThumbnail: filepath.Base(a.cfg.ThumbnailsPath),
		media.AssetTypeBugReport: filepath.Base(a.cfg.BugReportsPath),
	}
	return media.NewLocalStorage(a.cfg.MediaStoragePath, subDirs, a.log)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "communitybackend",
		Short:         "Community directory backend: member import, family trees and business search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newImportCmd(), newMigrateCmd(), newTokenCmd(), newHashKeyCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(apperr.ExitCode(err))
	}
}
