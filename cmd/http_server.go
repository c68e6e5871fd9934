package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/savings/api"
	"github.com/frahmantamala/savings/internal/category"
	"github.com/frahmantamala/savings/internal/dashboard"
	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/frahmantamala/savings/internal/transport"
	"github.com/frahmantamala/savings/internal/transport/rest"
	"github.com/frahmantamala/savings/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := swagger.LoadSpec(ctx, api.OpenAPI); err != nil {
		return err
	}

	deps, err := initializeDependencies(ctx, initOptions{migrate: true, notify: true})
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	if _, err := deps.Dashboard.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to compute initial dashboard: %w", err)
	}

	router := chi.NewRouter()
	setupRoutes(router, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.DB.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(router *chi.Mux, deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:    rest.NewHealthHandler(base, deps.DB.SQL, deps.DB.Driver),
		Category:  category.NewHandler(base),
		MoneyFlow: moneyflow.NewHandler(base, deps.Ledger),
		Dashboard: dashboard.NewHandler(base, deps.Dashboard),
		Spec:      api.OpenAPI,
	}, deps.Config.Server.Origins(), deps.Logger)
}
