// Package gemini implements inference.Client on the Gemini generateContent API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/learnai/internal/inference"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

type Client struct {
	httpClient *resty.Client
	model      string
}

func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetQueryParam("key", apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		model:      model,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type GenerateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type GenerateContentResponse struct {
	Candidates    []Candidate   `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
}

type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Generate implements the inference.Client interface
func (client *Client) Generate(
	ctx context.Context,
	params inference.GenerateRequest,
) (inference.GenerateResponse, error) {
	requestBody := GenerateContentRequest{
		Contents: []Content{
			{
				Parts: []Part{
					{Text: params.Prompt},
				},
			},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     params.Config.Temperature,
			TopK:            params.Config.TopK,
			TopP:            params.Config.TopP,
			MaxOutputTokens: params.Config.MaxOutputTokens,
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&GenerateContentResponse{}).
		Post("/models/" + client.model + ":generateContent")
	if err != nil {
		return inference.GenerateResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.GenerateResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*GenerateContentResponse)
	if responseBody == nil ||
		len(responseBody.Candidates) == 0 ||
		responseBody.Candidates[0].Content == nil ||
		len(responseBody.Candidates[0].Content.Parts) == 0 {
		return inference.GenerateResponse{}, fmt.Errorf("invalid response structure: %s", response.String())
	}

	var text strings.Builder
	for _, part := range responseBody.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	slog.Default().Debug("generateContent response",
		"model", client.model,
		"finishReason", responseBody.Candidates[0].FinishReason,
		"promptTokens", responseBody.UsageMetadata.PromptTokenCount,
		"candidatesTokens", responseBody.UsageMetadata.CandidatesTokenCount,
	)

	return inference.GenerateResponse{
		Text:         text.String(),
		Model:        client.model,
		InputTokens:  responseBody.UsageMetadata.PromptTokenCount,
		OutputTokens: responseBody.UsageMetadata.CandidatesTokenCount,
	}, nil
}
