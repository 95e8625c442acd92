package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/at-ishikawa/learnai/internal/config"
	"github.com/at-ishikawa/learnai/internal/generator"
	"github.com/at-ishikawa/learnai/internal/inference"
	"github.com/at-ishikawa/learnai/internal/inference/gemini"
	"github.com/at-ishikawa/learnai/internal/inference/openai"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/session"
	"github.com/at-ishikawa/learnai/internal/storage"
)

// ErrMissingAPIKey is returned when the configured provider has no API key.
var ErrMissingAPIKey = errors.New("missing API key")

// Services are the long-lived components shared by the commands and the server.
type Services struct {
	Store   storage.Store
	Library *library.Index
	Session *session.Session
}

// OpenServices opens the configured store and loads the active course from it.
// The store is closed by a shutdown hook registered on app.
func OpenServices(ctx context.Context, app *App, cfg *config.Config) (*Services, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return store.Close()
	})

	index := library.NewIndex(store)
	sess := session.New(store, index, session.Thresholds{
		SubtopicPassingScore: cfg.Quiz.SubtopicPassingScore,
		FinalPassingScore:    cfg.Quiz.FinalPassingScore,
		TimeLimit:            cfg.Quiz.QuestionTimeLimitSeconds,
	})
	sess.Load(ctx)

	return &Services{
		Store:   store,
		Library: index,
		Session: sess,
	}, nil
}

// NewInferenceClient returns the client of the configured content producer.
func NewInferenceClient(app *App, cfg *config.Config) (inference.Client, error) {
	provider := cfg.Provider()
	if provider.APIKey == "" {
		switch cfg.Generation.Provider {
		case config.ProviderOpenAI:
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required: %w", ErrMissingAPIKey)
		default:
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required: %w", ErrMissingAPIKey)
		}
	}

	switch cfg.Generation.Provider {
	case config.ProviderOpenAI:
		client := openai.NewClient(provider.APIKey, provider.Model, provider.BaseURL)
		app.AddShutdownHook(func(ctx context.Context) error {
			return client.Close()
		})
		return client, nil
	default:
		client := gemini.NewClient(provider.APIKey, provider.Model, provider.BaseURL)
		app.AddShutdownHook(func(ctx context.Context) error {
			return client.Close()
		})
		return client, nil
	}
}

// NewGenerator returns a course generator using the configured provider and sampling parameters.
func NewGenerator(app *App, cfg *config.Config) (*generator.Generator, error) {
	client, err := NewInferenceClient(app, cfg)
	if err != nil {
		return nil, err
	}
	return generator.New(client, inference.GenerationConfig{
		Temperature:     cfg.Generation.Temperature,
		TopK:            cfg.Generation.TopK,
		TopP:            cfg.Generation.TopP,
		MaxOutputTokens: cfg.Generation.MaxOutputTokens,
	}), nil
}
