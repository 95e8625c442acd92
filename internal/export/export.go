// Package export writes the active course to Markdown, PDF or YAML files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/at-ishikawa/learnai/internal/assets"
	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/explanation"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatYAML     Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// Exporter writes files named after the course topic into outputDirectory.
type Exporter struct {
	outputDirectory string
	templatePath    string
	now             func() time.Time
}

// NewExporter returns an exporter. templatePath overrides the embedded Markdown template when not empty.
func NewExporter(outputDirectory, templatePath string) *Exporter {
	return &Exporter{
		outputDirectory: outputDirectory,
		templatePath:    templatePath,
		now:             time.Now,
	}
}

// Export writes c in format and returns the absolute path of the written file.
func (e *Exporter) Export(c course.Course, format Format) (string, error) {
	if err := os.MkdirAll(e.outputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", e.outputDirectory, err)
	}

	var path string
	switch format {
	case FormatMarkdown, FormatPDF:
		path = filepath.Join(e.outputDirectory, Slug(c.Topic)+".md")
		if err := writeFile(path, func(w io.Writer) error {
			return WriteMarkdown(w, c, e.templatePath, e.now())
		}); err != nil {
			return "", err
		}
		if format == FormatPDF {
			pdfPath, err := ConvertMarkdownToPDF(path)
			if err != nil {
				return "", fmt.Errorf("ConvertMarkdownToPDF(%s) > %w", path, err)
			}
			path = pdfPath
		}
	case FormatYAML:
		path = filepath.Join(e.outputDirectory, Slug(c.Topic)+".yaml")
		if err := writeFile(path, func(w io.Writer) error {
			return WriteYAML(w, c)
		}); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return absPath, nil
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("output.Close() > %w", closeErr)
		}
	}()
	return write(output)
}

// WriteMarkdown renders c through the course template. Explanations are converted from HTML to Markdown.
func WriteMarkdown(output io.Writer, c course.Course, templatePath string, exportedAt time.Time) error {
	templateData := assets.CourseTemplate{
		Topic:           c.Topic,
		TopicIntro:      c.TopicIntro,
		RealLifeExample: c.RealLifeExample,
		ExportedAt:      exportedAt,
		FinalQuiz:       toTemplateQuestions(c.FinalQuiz),
	}
	for _, subtopic := range c.Subtopics {
		templateData.Subtopics = append(templateData.Subtopics, assets.CourseSubtopic{
			Name:            subtopic.Name,
			Explanation:     explanation.Markdown(subtopic.Explanation),
			FlashcardPoints: subtopic.FlashcardPoints,
			Quiz:            toTemplateQuestions(subtopic.Quiz),
			Completed:       subtopic.Completed,
			QuizPassed:      subtopic.QuizPassed,
		})
	}

	if err := assets.WriteCourse(output, templatePath, templateData); err != nil {
		return fmt.Errorf("assets.WriteCourse() > %w", err)
	}
	return nil
}

func toTemplateQuestions(questions []course.Question) []assets.CourseQuestion {
	result := make([]assets.CourseQuestion, 0, len(questions))
	for _, q := range questions {
		result = append(result, assets.CourseQuestion{
			Prompt:  q.Prompt,
			Options: q.Options(),
			Answer:  q.Answer,
		})
	}
	return result
}

// WriteYAML encodes the whole course including progress flags.
func WriteYAML(output io.Writer, c course.Course) error {
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("enc.Encode() > %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("enc.Close() > %w", err)
	}
	return nil
}

// Slug returns a lower-case file name for topic, "course" when nothing is left.
func Slug(topic string) string {
	slug := strings.Trim(nonSlugPattern.ReplaceAllString(strings.ToLower(topic), "-"), "-")
	if slug == "" {
		return "course"
	}
	return slug
}
