// Copyright 2026 The Reflect Access Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reflectnotes/reflect-access/internal/audit"
	"github.com/reflectnotes/reflect-access/internal/authz"
	"github.com/reflectnotes/reflect-access/internal/config"
	"github.com/reflectnotes/reflect-access/internal/identity"
	"github.com/reflectnotes/reflect-access/internal/observability/logger"
	"github.com/reflectnotes/reflect-access/internal/observability/metrics"
	"github.com/reflectnotes/reflect-access/internal/observability/tracing"
	"github.com/reflectnotes/reflect-access/internal/store/postgres"
	transportHTTP "github.com/reflectnotes/reflect-access/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting reflect access service")

	ctx := context.Background()

	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	if tracer != nil {
		defer tracer.Shutdown(ctx)
	}

	meter := metrics.New(metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)

	// Optional durable archive: long-tail audit history beyond the
	// in-memory retention bound.
	logOpts := []audit.Option{audit.WithCapacity(cfg.Audit.Capacity)}
	if cfg.ArchiveDB.Enabled() {
		db, err := postgres.New(ctx, postgres.Config{
			Host:         cfg.ArchiveDB.Host,
			Port:         cfg.ArchiveDB.Port,
			User:         cfg.ArchiveDB.User,
			Password:     cfg.ArchiveDB.Password,
			Database:     cfg.ArchiveDB.Database,
			SSLMode:      cfg.ArchiveDB.SSLMode,
			MaxOpenConns: cfg.ArchiveDB.MaxOpenConns,
			MaxIdleConns: cfg.ArchiveDB.MaxIdleConns,
		})
		if err != nil {
			slog.Error("failed to connect to audit archive database", logger.Error(err))
			os.Exit(1)
		}
		defer db.Close()

		archive := postgres.NewAuditRepository(db)
		if err := archive.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare audit archive schema", logger.Error(err))
			os.Exit(1)
		}
		logOpts = append(logOpts, audit.WithSink(archive))
		slog.Info("audit archive enabled")
	}

	auditLog := audit.NewLog(logOpts...)

	production, err := authz.NewProductionCatalog()
	if err != nil {
		slog.Error("invalid production catalog", logger.Error(err))
		os.Exit(1)
	}
	preview, err := authz.NewPreviewCatalog()
	if err != nil {
		slog.Error("invalid preview catalog", logger.Error(err))
		os.Exit(1)
	}

	authzService := authz.NewService(production, auditLog, meter)
	tokens := identity.NewTokenCodec(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	handler := transportHTTP.NewHandler(authzService, auditLog, production, preview, tokens)
	router := transportHTTP.NewRouter(handler, rateLimiter)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}
