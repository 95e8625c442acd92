package assets

import (
	_ "embed"
	"fmt"
	"io"
	"time"
)

const courseTemplateName = "course.md.go.tmpl"

//go:embed templates/course.md.go.tmpl
var fallbackCourseTemplate string

// CourseTemplate is the top-level data structure for course export templates
type CourseTemplate struct {
	Topic           string
	TopicIntro      string
	RealLifeExample string
	ExportedAt      time.Time
	Subtopics       []CourseSubtopic
	FinalQuiz       []CourseQuestion
}

// CourseSubtopic is one subtopic with its explanation already rendered as plain text
type CourseSubtopic struct {
	Name            string
	Explanation     string
	FlashcardPoints []string
	Quiz            []CourseQuestion
	Completed       bool
	QuizPassed      bool
}

// CourseQuestion is a quiz question for template rendering
type CourseQuestion struct {
	Prompt  string
	Options []string
	Answer  string
}

func WriteCourse(output io.Writer, templatePath string, templateData CourseTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, courseTemplateName, fallbackCourseTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
