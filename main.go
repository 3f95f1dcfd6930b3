package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/divia/calculadora/pkg/api"
	"github.com/divia/calculadora/pkg/clients/webhook"
	"github.com/divia/calculadora/pkg/config"
	"github.com/divia/calculadora/pkg/middleware"
	"github.com/divia/calculadora/pkg/services"
	"github.com/divia/calculadora/pkg/session"
)

const appVersion = "1.2.0"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	root := &cobra.Command{
		Use:   "divia",
		Short: "DIVIA automation savings calculator (web or CLI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.LoadConfig())
		},
	}
	root.Version = appVersion
	root.SetVersionTemplate("divia v{{.Version}}\n")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the calculator web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.LoadConfig())
		},
	})
	root.AddCommand(newCalcCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the webhook client and services
	webhookClient := webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout)
	reportService := services.NewReportService(webhookClient, cfg)

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	gin.SetMode(cfg.GinMode)

	// Create a new Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	handlers := api.NewHandlers(reportService, sessions, cfg)
	api.RegisterRoutes(router, handlers)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutdown signal")
	}

	// Let pending report downloads finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WebhookTimeout+5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
