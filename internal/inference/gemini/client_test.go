package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/at-ishikawa/learnai/internal/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name              string
		request           inference.GenerateRequest
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantResponse    inference.GenerateResponse
		wantError       bool
		wantErrorString string
	}{
		{
			name: "Success",
			request: inference.GenerateRequest{
				Prompt: "Create a course about Algebra",
				Config: inference.DefaultGenerationConfig(),
			},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))

				var reqBody GenerateContentRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				require.Len(t, reqBody.Contents, 1)
				require.Len(t, reqBody.Contents[0].Parts, 1)
				assert.Equal(t, "Create a course about Algebra", reqBody.Contents[0].Parts[0].Text)
				assert.Equal(t, GenerationConfig{
					Temperature:     0.7,
					TopK:            40,
					TopP:            0.95,
					MaxOutputTokens: 8192,
				}, reqBody.GenerationConfig)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_ = json.NewEncoder(w).Encode(GenerateContentResponse{
					Candidates: []Candidate{
						{
							Content: &Content{
								Role:  "model",
								Parts: []Part{{Text: `{"topic":`}, {Text: `"Algebra"}`}},
							},
							FinishReason: "STOP",
						},
					},
					UsageMetadata: UsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 34},
				})
			},
			wantResponse: inference.GenerateResponse{
				Text:         `{"topic":"Algebra"}`,
				Model:        "gemini-2.0-flash",
				InputTokens:  12,
				OutputTokens: 34,
			},
		},
		{
			name:    "Error status",
			request: inference.GenerateRequest{Prompt: "x"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
			},
			wantError:       true,
			wantErrorString: "response error 403",
		},
		{
			name:    "No candidates",
			request: inference.GenerateRequest{Prompt: "x"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			wantError:       true,
			wantErrorString: "invalid response structure",
		},
		{
			name:    "Candidate without content",
			request: inference.GenerateRequest{Prompt: "x"},
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"candidates":[{"finishReason":"SAFETY"}]}`))
			},
			wantError:       true,
			wantErrorString: "invalid response structure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, w, r)
			}))
			defer server.Close()

			client := NewClient("test-key", "", server.URL)
			defer func() {
				_ = client.Close()
			}()

			gotResponse, gotErr := client.Generate(context.Background(), tt.request)
			if tt.wantError {
				require.Error(t, gotErr)
				if tt.wantErrorString != "" {
					assert.Contains(t, gotErr.Error(), tt.wantErrorString)
				}
				return
			}

			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantResponse, gotResponse)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("key", "", "")
	assert.Equal(t, DefaultModel, client.GetModel())

	client = NewClient("key", "gemini-1.5-pro", "")
	assert.Equal(t, "gemini-1.5-pro", client.GetModel())
}
