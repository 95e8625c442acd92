package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for content generation
type Client interface {
	Generate(ctx context.Context, params GenerateRequest) (GenerateResponse, error)
	GetModel() string
}

// GenerationConfig holds the sampling parameters sent with a generation request
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"top_k"`
	TopP            float64 `json:"top_p"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// GenerateRequest holds a natural-language prompt and its sampling parameters
type GenerateRequest struct {
	Prompt string           `json:"prompt"`
	Config GenerationConfig `json:"config"`
}

// GenerateResponse holds the raw generated text
type GenerateResponse struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

const (
	DefaultTemperature     = 0.7
	DefaultTopK            = 40
	DefaultTopP            = 0.95
	DefaultMaxOutputTokens = 8192
)

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     DefaultTemperature,
		TopK:            DefaultTopK,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}
