// Package generator asks a content producer for a course and turns its reply into a course.Course.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/inference"
)

var (
	// ErrContentFormat is returned when the producer's reply has no valid course object.
	ErrContentFormat = errors.New("content format error")
	// ErrInvalidRequest is returned when the topic or the subtopic list is blank.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrGenerationInProgress is returned when a generation is requested while another is outstanding.
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// Request names the topic and the subtopics to generate.
type Request struct {
	Topic     string
	Subtopics []string
}

// Normalize trims the topic and the subtopics and drops blank subtopics.
func (r Request) Normalize() (Request, error) {
	topic := strings.TrimSpace(r.Topic)
	if topic == "" {
		return Request{}, fmt.Errorf("topic is empty: %w", ErrInvalidRequest)
	}

	subtopics := make([]string, 0, len(r.Subtopics))
	for _, subtopic := range r.Subtopics {
		if trimmed := strings.TrimSpace(subtopic); trimmed != "" {
			subtopics = append(subtopics, trimmed)
		}
	}
	if len(subtopics) == 0 {
		return Request{}, fmt.Errorf("no subtopics: %w", ErrInvalidRequest)
	}

	return Request{
		Topic:     topic,
		Subtopics: subtopics,
	}, nil
}

// Generator produces courses. At most one generation runs at a time.
type Generator struct {
	client     inference.Client
	config     inference.GenerationConfig
	inProgress atomic.Bool
}

func New(client inference.Client, config inference.GenerationConfig) *Generator {
	return &Generator{
		client: client,
		config: config,
	}
}

// InProgress reports whether a generation is outstanding.
func (g *Generator) InProgress() bool {
	return g.inProgress.Load()
}

// Generate sends one request to the content producer and parses the reply.
// Failures are not retried. The returned course is not installed anywhere.
func (g *Generator) Generate(ctx context.Context, request Request) (course.Course, error) {
	normalized, err := request.Normalize()
	if err != nil {
		return course.Course{}, err
	}

	if !g.inProgress.CompareAndSwap(false, true) {
		return course.Course{}, ErrGenerationInProgress
	}
	defer g.inProgress.Store(false)

	prompt, err := BuildPrompt(normalized)
	if err != nil {
		return course.Course{}, fmt.Errorf("BuildPrompt() > %w", err)
	}

	logger := slog.Default().With("topic", normalized.Topic, "model", g.client.GetModel())
	logger.Debug("generating course", "subtopics", normalized.Subtopics)

	response, err := g.client.Generate(ctx, inference.GenerateRequest{
		Prompt: prompt,
		Config: g.config,
	})
	if err != nil {
		return course.Course{}, fmt.Errorf("client.Generate() > %w", err)
	}
	logger.Debug("generated course",
		"inputTokens", response.InputTokens,
		"outputTokens", response.OutputTokens,
	)

	generated, err := Parse(response.Text)
	if err != nil {
		logger.Error("failed to parse generated course", "error", err)
		return course.Course{}, fmt.Errorf("Parse() > %w", err)
	}
	return generated, nil
}
