package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/safar/shop-admin/internal/api"
	"github.com/safar/shop-admin/internal/config"
	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/password"
	"github.com/safar/shop-admin/internal/store"
	"github.com/spf13/cobra"
)

const portFlag = "port"

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP port, overrides SERVER_PORT",
	},
}

func newServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	cobraflags.RegisterMap(serveCmd, serveFlags)
	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port := serveFlags[portFlag].GetString(); port != "" {
		cfg.Server.Port = port
	}

	logger := newLogger(cfg.Log)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Error("connect to database", "error", err)
		return err
	}
	defer db.Close()

	logger.Info("connected to database", "driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrateOnStart {
		applied, err := database.Migrate(ctx, db, database.Up, 0, logger)
		if err != nil {
			logger.Error("run migrations", "error", err)
			return err
		}
		logger.Info("migrations applied", "count", applied)
	}

	gin.SetMode(cfg.Server.Mode)

	h := api.NewHandler(
		store.NewProducts(db),
		store.NewCategories(db),
		store.NewUsers(db, password.BcryptHasher{}),
		store.NewRoles(db),
		db,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(h, cfg.Server, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "mode", cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
