package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "github.com/Skotchmaster/storefront/internal/auth/httpserver"
	authrepo "github.com/Skotchmaster/storefront/internal/auth/repo"
	authsvc "github.com/Skotchmaster/storefront/internal/auth/service"
	cataloghttp "github.com/Skotchmaster/storefront/internal/catalog/httpserver"
	catalogrepo "github.com/Skotchmaster/storefront/internal/catalog/repo"
	catalogsvc "github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	orderhttp "github.com/Skotchmaster/storefront/internal/order/httpserver"
	orderrepo "github.com/Skotchmaster/storefront/internal/order/repo"
	ordersvc "github.com/Skotchmaster/storefront/internal/order/service"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/tokens"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("db close error", "error", err)
		}
	}()
	if cfg.DBAutoMigrate {
		if err := db.Migrate(initCtx, gdb); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
	}

	pub := events.New(cfg.KafkaBrokers)
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("kafka close error", "error", err)
		}
	}()
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("kafka brokers not configured, events are dropped")
	}

	catalog := &catalogsvc.CatalogService{Repo: &catalogrepo.GormRepo{DB: gdb}, Events: pub}
	if cfg.ESURL != "" {
		idx, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		}, log)
		if err != nil {
			log.Warn("elasticsearch unavailable, full-text search falls back to keyword search", "error", err)
		} else {
			catalog.Index = idx
		}
	}

	auth := &authsvc.AuthService{
		Repo: &authrepo.GormRepo{DB: gdb},
		Tokens: tokens.Issuer{
			AccessSecret:  cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
			AccessTTL:     cfg.AccessTokenTTL,
			RefreshTTL:    cfg.RefreshTokenTTL,
		},
		Events: pub,
	}
	bootCtx := logging.IntoContext(initCtx, log)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := auth.BootstrapAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("admin bootstrap: %w", err)
		}
	}
	if n, err := auth.PurgeExpiredTokens(bootCtx); err != nil {
		log.Warn("purge refresh tokens failed", "error", err)
	} else if n > 0 {
		log.Info("purged expired refresh tokens", "rows", n)
	}

	deps := &httpserver.Deps{
		DB:             gdb,
		Logger:         log,
		AuthHandler:    &authhttp.AuthHTTP{Svc: auth, CookieSecure: cfg.CookieSecure},
		CatalogHandler: &cataloghttp.CatalogHTTP{Svc: catalog},
		OrderHandler:   &orderhttp.OrderHTTP{Svc: ordersvc.New(&orderrepo.GormRepo{DB: gdb}, pub)},
		Bearer:         authmw.NewBearerAuth(cfg.JWTAccessSecret),
	}
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.CookieSecure
		deps.CSRF = &csrfCfg
	}
	e := httpserver.New(deps)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}
