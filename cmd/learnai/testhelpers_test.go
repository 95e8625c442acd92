package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/inference/gemini"
	"github.com/at-ishikawa/learnai/internal/testutil"
)

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// executeCommand runs the root command with args, feeding input to stdin, and returns everything it printed.
func executeCommand(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { configFile = "" })

	command := newRootCommand()
	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(output)
	command.SetIn(strings.NewReader(input))
	command.SetArgs(args)

	err := command.ExecuteContext(context.Background())
	return output.String(), err
}

// newGeminiServer serves generateContent responses whose text is produced by reply.
func newGeminiServer(t *testing.T, status int, reply func() string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		assert.NoError(t, json.NewEncoder(w).Encode(gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{
				{
					Content:      &gemini.Content{Parts: []gemini.Part{{Text: reply()}}},
					FinishReason: "STOP",
				},
			},
		}))
	}))
	t.Cleanup(server.Close)
	return server
}

// setupGeneratedCourse writes a config whose provider returns a course on topic, and generates it.
func setupGeneratedCourse(t *testing.T, topic string, subtopics ...string) (string, course.Course) {
	t.Helper()
	want := testutil.NewCourse(topic, subtopics...)
	server := newGeminiServer(t, http.StatusOK, func() string {
		return "```json\n" + testutil.CourseJSON(t, want) + "\n```"
	})
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfigWithProvider(t, tmpDir, "gemini", server.URL)

	args := []string{"generate", "--config", cfgPath, "--topic", topic}
	for _, subtopic := range subtopics {
		args = append(args, "--subtopic", subtopic)
	}
	_, err := executeCommand(t, "", args...)
	require.NoError(t, err)
	return cfgPath, want
}
