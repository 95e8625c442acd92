package course

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	TypeMultipleChoice = "mcq"
	TypeFreeText       = "text"
)

// Format is the kind of a question. Options only exist on MultipleChoice.
type Format interface {
	typeName() string
}

// MultipleChoice is a question answered by picking one of Options.
type MultipleChoice struct {
	Options []string
}

func (MultipleChoice) typeName() string { return TypeMultipleChoice }

// FreeText is a question answered with a short typed token.
type FreeText struct{}

func (FreeText) typeName() string { return TypeFreeText }

// Question is a single quiz question. ID is unique within its quiz.
type Question struct {
	ID     int
	Prompt string
	Answer string
	Format Format
}

// NewMultipleChoice creates a multiple-choice question.
func NewMultipleChoice(id int, prompt string, options []string, answer string) Question {
	return Question{
		ID:     id,
		Prompt: prompt,
		Answer: answer,
		Format: MultipleChoice{Options: options},
	}
}

// NewFreeText creates a free-text question.
func NewFreeText(id int, prompt string, answer string) Question {
	return Question{
		ID:     id,
		Prompt: prompt,
		Answer: answer,
		Format: FreeText{},
	}
}

// Type returns the wire name of the question format.
func (q Question) Type() string {
	if q.Format == nil {
		return ""
	}
	return q.Format.typeName()
}

// Options returns the choices of a multiple-choice question, or nil.
func (q Question) Options() []string {
	if mc, ok := q.Format.(MultipleChoice); ok {
		return mc.Options
	}
	return nil
}

// IsCorrect reports whether the given answer matches the expected answer
// after trimming whitespace and lower-casing both.
func (q Question) IsCorrect(given string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(q.Answer)
}

// NormalizeAnswer trims surrounding whitespace and lower-cases s.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HasAnswerOption reports whether a multiple-choice question offers its expected answer.
// Free-text questions always report true.
func (q Question) HasAnswerOption() bool {
	mc, ok := q.Format.(MultipleChoice)
	if !ok {
		return true
	}
	for _, option := range mc.Options {
		if NormalizeAnswer(option) == NormalizeAnswer(q.Answer) {
			return true
		}
	}
	return false
}

type questionDocument struct {
	ID       int      `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Answer   string   `json:"answer" yaml:"answer"`
}

func (q Question) toDocument() questionDocument {
	return questionDocument{
		ID:       q.ID,
		Type:     q.Type(),
		Question: q.Prompt,
		Options:  q.Options(),
		Answer:   q.Answer,
	}
}

func (doc questionDocument) toQuestion() (Question, error) {
	switch doc.Type {
	case TypeMultipleChoice:
		if len(doc.Options) == 0 {
			return Question{}, fmt.Errorf("question %d: multiple-choice question has no options", doc.ID)
		}
		return NewMultipleChoice(doc.ID, doc.Question, doc.Options, doc.Answer), nil
	case TypeFreeText:
		return NewFreeText(doc.ID, doc.Question, doc.Answer), nil
	default:
		return Question{}, fmt.Errorf("question %d: unknown question type %q", doc.ID, doc.Type)
	}
}

func (q Question) MarshalJSON() ([]byte, error) {
	if q.Format == nil {
		return nil, fmt.Errorf("question %d has no format", q.ID)
	}
	return json.Marshal(q.toDocument())
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var doc questionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	decoded, err := doc.toQuestion()
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

// MarshalYAML keeps the YAML export in the same shape as the JSON document.
func (q Question) MarshalYAML() (interface{}, error) {
	return q.toDocument(), nil
}

func cloneQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	cloned := make([]Question, len(questions))
	for i, q := range questions {
		if mc, ok := q.Format.(MultipleChoice); ok {
			q.Format = MultipleChoice{Options: append([]string(nil), mc.Options...)}
		}
		cloned[i] = q
	}
	return cloned
}
