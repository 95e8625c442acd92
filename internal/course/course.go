// Package course provides the generated course model and the rules that move a learner through it.
package course

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStateTransition is returned when a progress mutation is requested while its precondition does not hold.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// NoAnswer is recorded as the given answer of a question left unanswered.
const NoAnswer = "No answer"

// Subtopic is one lesson segment of a course.
type Subtopic struct {
	ID              int        `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Explanation     string     `json:"explanation" yaml:"explanation"`
	FlashcardPoints []string   `json:"flashcardPoints" yaml:"flashcard_points"`
	Quiz            []Question `json:"quiz" yaml:"quiz"`
	Completed       bool       `json:"completed" yaml:"completed"`
	QuizPassed      bool       `json:"quizPassed" yaml:"quiz_passed"`
}

// IsDone reports whether the subtopic was read and its quiz passed.
func (s Subtopic) IsDone() bool {
	return s.Completed && s.QuizPassed
}

// Course is the generated learning unit for one topic.
type Course struct {
	Topic              string     `json:"topic" yaml:"topic"`
	TopicIntro         string     `json:"topicIntro" yaml:"topic_intro"`
	RealLifeExample    string     `json:"realLifeExample" yaml:"real_life_example"`
	Subtopics          []Subtopic `json:"subtopics" yaml:"subtopics"`
	FinalQuiz          []Question `json:"finalQuiz" yaml:"final_quiz"`
	CurrentSubtopic    int        `json:"currentSubtopic" yaml:"current_subtopic"`
	FinalQuizCompleted bool       `json:"finalQuizCompleted" yaml:"final_quiz_completed"`
}

// IncorrectQuestion records a question missed in an attempt.
type IncorrectQuestion struct {
	Question      string `json:"question" yaml:"question"`
	UserAnswer    string `json:"userAnswer" yaml:"user_answer"`
	CorrectAnswer string `json:"correctAnswer" yaml:"correct_answer"`
}

// QuizAttempt is one completed pass through a quiz.
// SubtopicIndex is nil for the final quiz.
type QuizAttempt struct {
	SubtopicIndex      *int                `json:"subtopicIndex,omitempty" yaml:"subtopic_index,omitempty"`
	Score              int                 `json:"score" yaml:"score"`
	Passed             bool                `json:"passed" yaml:"passed"`
	Timestamp          time.Time           `json:"timestamp" yaml:"timestamp"`
	IncorrectQuestions []IncorrectQuestion `json:"incorrectQuestions,omitempty" yaml:"incorrect_questions,omitempty"`
}

// IsFinal reports whether the attempt was at the final quiz.
func (a QuizAttempt) IsFinal() bool {
	return a.SubtopicIndex == nil
}

// IsForSubtopic reports whether the attempt was at the quiz of the subtopic at index.
func (a QuizAttempt) IsForSubtopic(index int) bool {
	return a.SubtopicIndex != nil && *a.SubtopicIndex == index
}

// SubtopicIndex returns a pointer suitable for QuizAttempt.SubtopicIndex.
func SubtopicIndex(index int) *int {
	return &index
}

// Current returns the subtopic in focus.
func (c *Course) Current() *Subtopic {
	if c.CurrentSubtopic < 0 || c.CurrentSubtopic >= len(c.Subtopics) {
		return nil
	}
	return &c.Subtopics[c.CurrentSubtopic]
}

// IsLastSubtopic reports whether the subtopic in focus is the last one.
func (c Course) IsLastSubtopic() bool {
	return c.CurrentSubtopic == len(c.Subtopics)-1
}

// AllSubtopicsDone reports whether every subtopic is completed and its quiz passed.
func (c Course) AllSubtopicsDone() bool {
	for _, subtopic := range c.Subtopics {
		if !subtopic.IsDone() {
			return false
		}
	}
	return true
}

// ReadyForFinalQuiz reports whether the final quiz is reachable.
func (c Course) ReadyForFinalQuiz() bool {
	return c.AllSubtopicsDone() && !c.FinalQuizCompleted
}

// CanAdvance reports whether AdvanceSubtopic would succeed.
func (c Course) CanAdvance() bool {
	current := c.Current()
	return current != nil && current.IsDone() && !c.IsLastSubtopic()
}

// MarkSubtopicComplete marks the subtopic at index as read. Only the subtopic in focus can be marked.
func (c *Course) MarkSubtopicComplete(index int) error {
	if index != c.CurrentSubtopic || c.Current() == nil {
		return fmt.Errorf("mark subtopic %d complete while subtopic %d is current: %w", index, c.CurrentSubtopic, ErrInvalidStateTransition)
	}
	c.Subtopics[index].Completed = true
	return nil
}

// RecordQuizOutcome applies a passing attempt to the course. Failing attempts change nothing.
func (c *Course) RecordQuizOutcome(attempt QuizAttempt) error {
	if attempt.SubtopicIndex != nil {
		index := *attempt.SubtopicIndex
		if index < 0 || index >= len(c.Subtopics) {
			return fmt.Errorf("record quiz outcome for subtopic %d of %d: %w", index, len(c.Subtopics), ErrInvalidStateTransition)
		}
		if attempt.Passed {
			c.Subtopics[index].QuizPassed = true
		}
		return nil
	}

	if attempt.Passed {
		c.FinalQuizCompleted = true
	}
	return nil
}

// AdvanceSubtopic moves the focus to the next subtopic.
func (c *Course) AdvanceSubtopic() error {
	current := c.Current()
	if current == nil || !current.IsDone() {
		return fmt.Errorf("advance from subtopic %d which is not completed and passed: %w", c.CurrentSubtopic, ErrInvalidStateTransition)
	}
	if c.IsLastSubtopic() {
		return fmt.Errorf("advance from the last subtopic %d: %w", c.CurrentSubtopic, ErrInvalidStateTransition)
	}
	c.CurrentSubtopic++
	return nil
}

// Validate checks the invariants a loaded course must hold.
func (c Course) Validate() error {
	if len(c.Subtopics) == 0 {
		return fmt.Errorf("course %q has no subtopics", c.Topic)
	}
	if c.CurrentSubtopic < 0 || c.CurrentSubtopic >= len(c.Subtopics) {
		return fmt.Errorf("current subtopic %d is out of range [0, %d)", c.CurrentSubtopic, len(c.Subtopics))
	}
	for i := 0; i < c.CurrentSubtopic; i++ {
		if !c.Subtopics[i].IsDone() {
			return fmt.Errorf("subtopic %d is behind the current subtopic but not done", i)
		}
	}
	return nil
}

// ResetProgress clears the session-local progress flags.
func (c *Course) ResetProgress() {
	c.CurrentSubtopic = 0
	c.FinalQuizCompleted = false
	for i := range c.Subtopics {
		c.Subtopics[i].Completed = false
		c.Subtopics[i].QuizPassed = false
	}
}

// CloneSubtopics returns a deep copy of the subtopics.
func (c Course) CloneSubtopics() []Subtopic {
	return CloneSubtopics(c.Subtopics)
}

// CloneSubtopics returns a deep copy of subtopics.
func CloneSubtopics(subtopics []Subtopic) []Subtopic {
	if subtopics == nil {
		return nil
	}
	cloned := make([]Subtopic, len(subtopics))
	for i, subtopic := range subtopics {
		subtopic.FlashcardPoints = append([]string(nil), subtopic.FlashcardPoints...)
		subtopic.Quiz = cloneQuestions(subtopic.Quiz)
		cloned[i] = subtopic
	}
	return cloned
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	cloned := c
	cloned.Subtopics = CloneSubtopics(c.Subtopics)
	cloned.FinalQuiz = cloneQuestions(c.FinalQuiz)
	return cloned
}
