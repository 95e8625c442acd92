// Package testutil provides shared test helpers for creating config files and course fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and all required directories for testing.
// Storage uses the file backend under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "outputs"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  backend: file
  directory: %s
outputs:
  directory: %s
quiz:
  question_time_limit_seconds: 30
`,
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "outputs"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithProvider creates a config file whose content producer points at baseURL
// with a fake API key, for tests that generate courses against an httptest server.
func SetupTestConfigWithProvider(t *testing.T, tmpDir string, provider string, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf(`generation:
  provider: %s
%s:
  api_key: fake-key-for-testing
  base_url: %s
`, provider, provider, baseURL))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

var (
	subtopicFreeText = map[int]bool{3: true, 6: true, 9: true, 12: true}
	finalFreeText    = map[int]bool{5: true, 10: true, 15: true, 20: true, 25: true}
)

// NewQuiz returns count questions with ids 1..count. Positions in freeText are free-text
// questions answered "answer<id>"; the rest are multiple choice with the same answer as option A.
func NewQuiz(prefix string, count int, freeText map[int]bool) []course.Question {
	questions := make([]course.Question, 0, count)
	for id := 1; id <= count; id++ {
		prompt := fmt.Sprintf("%s question %d", prefix, id)
		answer := fmt.Sprintf("answer%d", id)
		if freeText[id] {
			questions = append(questions, course.NewFreeText(id, prompt, answer))
			continue
		}
		questions = append(questions, course.NewMultipleChoice(id, prompt,
			[]string{answer, "wrong b", "wrong c", "wrong d"},
			answer,
		))
	}
	return questions
}

// NewCourse returns a course with the full structural quotas: 8 flashcard points and
// 12 questions per subtopic, and a 25 question final quiz.
func NewCourse(topic string, subtopics ...string) course.Course {
	c := course.Course{
		Topic:           topic,
		TopicIntro:      "An introduction to " + topic + ".",
		RealLifeExample: topic + " shows up in everyday budgeting.",
		FinalQuiz:       NewQuiz("final", 25, finalFreeText),
	}
	for i, name := range subtopics {
		points := make([]string, 8)
		for p := range points {
			points[p] = fmt.Sprintf("%s point %d", name, p+1)
		}
		c.Subtopics = append(c.Subtopics, course.Subtopic{
			ID:              i + 1,
			Name:            name,
			Explanation:     "<h3>Core Concept</h3><p>" + name + " explained.</p><ul><li>First</li><li>Second</li></ul>",
			FlashcardPoints: points,
			Quiz:            NewQuiz(name, 12, subtopicFreeText),
		})
	}
	return c
}

// CourseJSON marshals c the way a content producer would return it.
func CourseJSON(t *testing.T, c course.Course) string {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	return string(data)
}
