package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/learnai/internal/bootstrap"
	"github.com/at-ishikawa/learnai/internal/config"
	"github.com/at-ishikawa/learnai/internal/server"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "learnai-server",
		Short:         "LearnAI course service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (defaults to $LEARNAI_CONFIG)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	srv, err := newServer(ctx, app, cfg)
	if err != nil {
		_ = app.Shutdown(ctx)
		return err
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "address", srv.Addr, "provider", cfg.Generation.Provider, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func newServer(ctx context.Context, app *bootstrap.App, cfg *config.Config) (*http.Server, error) {
	courseGenerator, err := bootstrap.NewGenerator(app, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.NewGenerator() > %w", err)
	}
	services, err := bootstrap.OpenServices(ctx, app, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.OpenServices() > %w", err)
	}

	handler, err := server.NewCourseHandler(courseGenerator, services.Session, services.Library)
	if err != nil {
		return nil, fmt.Errorf("server.NewCourseHandler() > %w", err)
	}
	path, h := server.NewCourseServiceHandler(handler)

	mux := http.NewServeMux()
	mux.Handle(path, h)

	return &http.Server{
		Addr:    cfg.Server.Address,
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}, nil
}

func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("LEARNAI_CONFIG")
	}
	loader, err := config.NewConfigLoader(path)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
