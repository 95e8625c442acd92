// Package quiz runs a timed quiz over a fixed list of questions and scores it.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
)

var (
	// ErrInvalidQuizConfiguration is returned when a quiz cannot be constructed from its configuration.
	ErrInvalidQuizConfiguration = errors.New("invalid quiz configuration")
	// ErrNotActive is returned when a question-level operation is requested after the results are out.
	ErrNotActive = errors.New("quiz is not active")
	// ErrRestartNotAllowed is returned when Restart is requested outside a failed, retakeable result.
	ErrRestartNotAllowed = errors.New("quiz restart is not allowed")
	// ErrUnknownQuestion is returned when an answer names a question that is not part of the quiz.
	ErrUnknownQuestion = errors.New("unknown question")
)

// DefaultTimeLimit is the number of ticks a learner has for each question.
const DefaultTimeLimit = 30

type State int

const (
	StateActive State = iota
	StateResults
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResults:
		return "results"
	default:
		return "unknown"
	}
}

//go:generate mockgen -source=engine.go -destination=../mocks/quiz/mock_recorder.go -package=mock_quiz AttemptRecorder

// AttemptRecorder receives the attempt built when a quiz finishes.
type AttemptRecorder interface {
	RecordAttempt(attempt course.QuizAttempt) error
}

// Config configures a quiz.
type Config struct {
	Questions []course.Question
	// PassingScore is the minimum integer percentage that passes.
	PassingScore int
	// TimeLimit is the number of ticks per question.
	TimeLimit int
	// SubtopicIndex is nil for the final quiz.
	SubtopicIndex *int
	AllowRetake   bool
	Recorder      AttemptRecorder
	Now           func() time.Time
}

// Result is the outcome of a finished quiz.
type Result struct {
	Score   int
	Passed  bool
	Correct int
	Total   int
	Attempt course.QuizAttempt
}

// Engine is the quiz state machine. It is not safe for concurrent use.
type Engine struct {
	questions     []course.Question
	questionIDs   map[int]struct{}
	passingScore  int
	timeLimit     int
	subtopicIndex *int
	allowRetake   bool
	recorder      AttemptRecorder
	now           func() time.Time

	state         State
	currentIndex  int
	answers       map[int]string
	timeRemaining int
	result        Result
}

// New validates cfg and returns an engine on the first question.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("no questions: %w", ErrInvalidQuizConfiguration)
	}
	if cfg.TimeLimit <= 0 {
		return nil, fmt.Errorf("time limit %d is not positive: %w", cfg.TimeLimit, ErrInvalidQuizConfiguration)
	}
	if cfg.PassingScore < 0 || cfg.PassingScore > 100 {
		return nil, fmt.Errorf("passing score %d is not a percentage: %w", cfg.PassingScore, ErrInvalidQuizConfiguration)
	}

	questionIDs := make(map[int]struct{}, len(cfg.Questions))
	for _, q := range cfg.Questions {
		if _, ok := questionIDs[q.ID]; ok {
			return nil, fmt.Errorf("duplicate question id %d: %w", q.ID, ErrInvalidQuizConfiguration)
		}
		if q.Format == nil {
			return nil, fmt.Errorf("question %d has no format: %w", q.ID, ErrInvalidQuizConfiguration)
		}
		questionIDs[q.ID] = struct{}{}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		questions:     cfg.Questions,
		questionIDs:   questionIDs,
		passingScore:  cfg.PassingScore,
		timeLimit:     cfg.TimeLimit,
		subtopicIndex: cfg.SubtopicIndex,
		allowRetake:   cfg.AllowRetake,
		recorder:      cfg.Recorder,
		now:           now,

		state:         StateActive,
		answers:       make(map[int]string),
		timeRemaining: cfg.TimeLimit,
	}, nil
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) CurrentIndex() int {
	return e.currentIndex
}

func (e *Engine) CurrentQuestion() course.Question {
	return e.questions[e.currentIndex]
}

func (e *Engine) QuestionCount() int {
	return len(e.questions)
}

func (e *Engine) TimeRemaining() int {
	return e.timeRemaining
}

func (e *Engine) PassingScore() int {
	return e.passingScore
}

// AnswerFor returns the answer on record for a question.
func (e *Engine) AnswerFor(questionID int) (string, bool) {
	answer, ok := e.answers[questionID]
	return answer, ok
}

// Result returns the outcome once the quiz is in the results state.
func (e *Engine) Result() (Result, bool) {
	if e.state != StateResults {
		return Result{}, false
	}
	return e.result, true
}

// CanRestart reports whether Restart is available.
func (e *Engine) CanRestart() bool {
	return e.state == StateResults && !e.result.Passed && e.allowRetake
}

// Answer records or overwrites the learner's answer without advancing.
func (e *Engine) Answer(questionID int, value string) error {
	if e.state != StateActive {
		return ErrNotActive
	}
	if _, ok := e.questionIDs[questionID]; !ok {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	e.answers[questionID] = value
	return nil
}

// Tick consumes one unit of the current question's time budget and
// submits the question when the budget runs out.
func (e *Engine) Tick() error {
	if e.state != StateActive {
		return ErrNotActive
	}
	e.timeRemaining--
	if e.timeRemaining > 0 {
		return nil
	}
	return e.advance()
}

// Advance submits the current question, finishing the quiz after the last one.
func (e *Engine) Advance() error {
	if e.state != StateActive {
		return ErrNotActive
	}
	return e.advance()
}

func (e *Engine) advance() error {
	if e.currentIndex < len(e.questions)-1 {
		e.currentIndex++
		e.timeRemaining = e.timeLimit
		return nil
	}
	return e.finish()
}

func (e *Engine) finish() error {
	correct, incorrect := Evaluate(e.questions, e.answers)
	score := Percentage(correct, len(e.questions))
	passed := score >= e.passingScore

	attempt := course.QuizAttempt{
		Score:     score,
		Passed:    passed,
		Timestamp: e.now(),
	}
	if e.subtopicIndex != nil {
		attempt.SubtopicIndex = course.SubtopicIndex(*e.subtopicIndex)
	}
	if len(incorrect) > 0 {
		attempt.IncorrectQuestions = incorrect
	}

	e.state = StateResults
	e.timeRemaining = 0
	e.result = Result{
		Score:   score,
		Passed:  passed,
		Correct: correct,
		Total:   len(e.questions),
		Attempt: attempt,
	}

	if e.recorder == nil {
		return nil
	}
	if err := e.recorder.RecordAttempt(attempt); err != nil {
		return fmt.Errorf("recorder.RecordAttempt() > %w", err)
	}
	return nil
}

// Restart clears all answers and returns to the first question.
func (e *Engine) Restart() error {
	if !e.CanRestart() {
		return ErrRestartNotAllowed
	}
	e.state = StateActive
	e.currentIndex = 0
	e.answers = make(map[int]string)
	e.timeRemaining = e.timeLimit
	e.result = Result{}
	return nil
}
