package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/cmsblog/blog/application"
	"github.com/dfryer1193/cmsblog/internal/middleware"
	"github.com/dfryer1193/cmsblog/internal/observability"
	"github.com/dfryer1193/cmsblog/internal/pages"
	"github.com/dfryer1193/cmsblog/internal/rest"
	"github.com/dfryer1193/cmsblog/shared/cms"
	"github.com/dfryer1193/cmsblog/shared/graphql"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.SetupTracing(serviceName, cfg.Tracing.Exporter)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}()

	metrics := observability.NewMetrics(nil)

	client := graphql.NewClient(graphql.Config{
		Endpoint: cfg.CMS.Endpoint,
		Token:    cfg.CMS.Token,
		Timeout:  cfg.CMS.Timeout,
	}, graphql.WithObserver(metrics))
	if !client.HasEndpoint() {
		log.Warn().Msg("GRAPHCMS_ENDPOINT is not set; pages will render empty and comments are disabled")
	}
	if !client.HasCredential() {
		log.Warn().Msg("GRAPHCMS_TOKEN is not set; comment submission is disabled")
	}

	repo := cms.NewRepository(client)
	content := application.NewContentService(repo, metrics)

	commentOpts := []application.CommentServiceOption{application.WithRecorder(metrics)}
	if cfg.Ledger.Path != "" {
		ledgerDB, ledger, err := openLedger(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer ledgerDB.Close()

		commentOpts = append(commentOpts, application.WithLinkLedger(ledger))
		log.Info().Str("path", cfg.Ledger.Path).Msg("Recording unlinked comments")
	}
	comments := application.NewCommentService(repo, commentOpts...)

	site, err := pages.New(content, comments, application.NewCommentRenderer(), metrics)
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Use(otelgin.Middleware(serviceName))

	submitLimit := middleware.RateLimit(cfg.Comment.RateLimit, cfg.Comment.Burst)
	rest.NewApi(router, rest.NewHandler(client, content, comments), submitLimit)
	site.Register(router, submitLimit)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
