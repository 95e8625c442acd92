package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		templatePath string

		wantTemplateName     string
		templateData         interface{}
		wantTemplateContents string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				tmpDir := t.TempDir()
				templatePath := filepath.Join(tmpDir, "custom.md.go.tmpl")
				content := `Filesystem Template: {{ .Topic }}`
				err := os.WriteFile(templatePath, []byte(content), 0644)
				require.NoError(t, err)
				return templatePath
			}(t),
			wantTemplateName:     "custom.md.go.tmpl",
			templateData:         struct{ Topic string }{Topic: "Algebra"},
			wantTemplateContents: "Filesystem Template: Algebra",
		},
		{
			name:                 "uses embedded template when file doesn't exist",
			templatePath:         "/non/existent/invalid.md.go.tmpl",
			wantTemplateName:     "fallback.tmpl",
			templateData:         struct{ Topic string }{Topic: "Algebra"},
			wantTemplateContents: "Fallback: Algebra",
		},
		{
			name:                 "uses embedded template when no path is configured",
			templatePath:         "",
			wantTemplateName:     "fallback.tmpl",
			templateData:         struct{ Topic string }{Topic: "Physics"},
			wantTemplateContents: "Fallback: Physics",
		},
		{
			name: "uses embedded template when filesystem template is invalid",
			templatePath: func(t *testing.T) string {
				tmpDir := t.TempDir()
				templatePath := filepath.Join(tmpDir, "invalid.md.go.tmpl")
				badContent := `Bad: {{ .Unclosed`
				err := os.WriteFile(templatePath, []byte(badContent), 0644)
				require.NoError(t, err)
				return templatePath
			}(t),
			wantTemplateName:     "fallback.tmpl",
			templateData:         struct{ Topic string }{Topic: "Using Fallback"},
			wantTemplateContents: "Fallback: Using Fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := parseTemplateWithFallback(tt.templatePath, "fallback.tmpl", "Fallback: {{ .Topic }}")
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())

			var buf bytes.Buffer
			require.NoError(t, tmpl.Execute(&buf, tt.templateData))
			assert.Equal(t, tt.wantTemplateContents, buf.String())
		})
	}
}

func TestWriteCourse(t *testing.T) {
	data := CourseTemplate{
		Topic:           "Algebra",
		TopicIntro:      "Algebra is the study of symbols.",
		RealLifeExample: "Budgets use linear equations.",
		ExportedAt:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Subtopics: []CourseSubtopic{
			{
				Name:            "Linear Equations",
				Explanation:     "An equation of degree one.",
				FlashcardPoints: []string{"ax + b = 0", "One solution"},
				Quiz: []CourseQuestion{
					{Prompt: "Solve x + 1 = 2", Options: []string{"0", "1", "2", "3"}, Answer: "1"},
					{Prompt: "The x in 2x is the ____", Answer: "variable"},
				},
				Completed:  true,
				QuizPassed: true,
			},
		},
		FinalQuiz: []CourseQuestion{
			{Prompt: "Solve 2x = 4", Options: []string{"1", "2", "3", "4"}, Answer: "2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCourse(&buf, "", data))

	got := buf.String()
	assert.Contains(t, got, "# Algebra")
	assert.Contains(t, got, "## 1. Linear Equations (passed)")
	assert.Contains(t, got, "- ax + b = 0")
	assert.Contains(t, got, "1. Solve x + 1 = 2 (0 / 1 / 2 / 3)")
	assert.Contains(t, got, "2. The x in 2x is the ____\n    - Answer: variable")
	assert.Contains(t, got, "## Final quiz")
	assert.Contains(t, got, "_Exported on 2025-06-01_")
}

func TestWriteCoursePrompt(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCoursePrompt(&buf, PromptTemplate{
		Topic:                    "Algebra",
		Subtopics:                []string{"Linear Equations", "Quadratics"},
		FlashcardPoints:          8,
		SubtopicQuestions:        12,
		SubtopicFreeText:         []int{3, 6, 9, 12},
		FinalQuestions:           25,
		FinalFreeText:            []int{5, 10, 15, 20, 25},
		OptionsPerMultipleChoice: 4,
	})
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, `Create a course about "Algebra"`)
	assert.Contains(t, got, "Linear Equations, Quadratics")
	assert.Contains(t, got, "exactly 8 flashcardPoints")
	assert.Contains(t, got, "exactly 12 questions")
	assert.Contains(t, got, "Questions 3, 6, 9, 12 have type \"text\"")
	assert.Contains(t, got, "exactly 25 questions")
	assert.Contains(t, got, "Questions 5, 10, 15, 20, 25 have type \"text\"")
	assert.Contains(t, got, "exactly 4 options")
}
