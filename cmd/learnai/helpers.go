package main

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/learnai/internal/bootstrap"
	"github.com/at-ishikawa/learnai/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openServices loads the configuration and opens the store. Callers must shut app down.
func openServices(ctx context.Context) (*config.Config, *bootstrap.App, *bootstrap.Services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	app := bootstrap.New()
	services, err := bootstrap.OpenServices(ctx, app, cfg)
	if err != nil {
		_ = app.Shutdown(ctx)
		return nil, nil, nil, fmt.Errorf("bootstrap.OpenServices() > %w", err)
	}
	return cfg, app, services, nil
}
