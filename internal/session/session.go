// Package session holds the active course and its attempt history and writes every change through to storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/quiz"
	"github.com/at-ishikawa/learnai/internal/storage"
)

const (
	CourseKey   = "learnai-course"
	AttemptsKey = "learnai-quiz-attempts"
)

var (
	// ErrStorageRead marks a persisted value that could not be read back. Load logs it and continues.
	ErrStorageRead = errors.New("storage read failed")
	// ErrNoCourse is returned when an operation needs an active course and none is installed.
	ErrNoCourse = errors.New("no active course")
)

// Thresholds are the quiz settings applied to the active course.
type Thresholds struct {
	SubtopicPassingScore int
	FinalPassingScore    int
	TimeLimit            int
}

// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	store      storage.Store
	library    *library.Index
	thresholds Thresholds
	now        func() time.Time

	course   *course.Course
	attempts []course.QuizAttempt
}

func New(store storage.Store, index *library.Index, thresholds Thresholds) *Session {
	return &Session{
		store:      store,
		library:    index,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Load reads the persisted course and attempts. Values that are missing, unreadable
// or violate the course invariants are logged and treated as absent.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.course = nil
	s.attempts = nil

	var c course.Course
	if ok, err := s.read(ctx, CourseKey, &c); err != nil {
		slog.Default().Warn("discarding the persisted course", slog.Any("error", err))
	} else if ok {
		if err := c.Validate(); err != nil {
			slog.Default().Warn("discarding the persisted course",
				slog.Any("error", fmt.Errorf("course.Validate() > %w: %w", ErrStorageRead, err)),
			)
		} else {
			s.course = &c
		}
	}

	var attempts []course.QuizAttempt
	if _, err := s.read(ctx, AttemptsKey, &attempts); err != nil {
		slog.Default().Warn("discarding the persisted quiz attempts", slog.Any("error", err))
		return
	}
	s.attempts = attempts
}

func (s *Session) read(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store.Get(%s) > %w: %w", key, ErrStorageRead, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("json.Unmarshal(%s) > %w: %w", key, ErrStorageRead, err)
	}
	return true, nil
}

func (s *Session) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}

// Course returns a copy of the active course.
func (s *Session) Course() (course.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.course == nil {
		return course.Course{}, false
	}
	return s.course.Clone(), true
}

// Attempts returns the attempt history in insertion order.
func (s *Session) Attempts() []course.QuizAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]course.QuizAttempt(nil), s.attempts...)
}

func (s *Session) Thresholds() Thresholds {
	return s.thresholds
}

// InstallCourse replaces the active course and snapshots it into the library.
// The attempt history is kept.
func (s *Session) InstallCourse(ctx context.Context, c course.Course) (library.Entry, error) {
	if err := c.Validate(); err != nil {
		return library.Entry{}, fmt.Errorf("course.Validate() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	installed := c.Clone()
	if err := s.write(ctx, CourseKey, installed); err != nil {
		return library.Entry{}, err
	}
	s.course = &installed

	entry, err := s.library.Upsert(ctx, installed)
	if err != nil {
		return library.Entry{}, fmt.Errorf("library.Upsert() > %w", err)
	}
	return entry, nil
}

// MarkSubtopicComplete marks the subtopic in focus as read.
func (s *Session) MarkSubtopicComplete(ctx context.Context, index int) error {
	return s.mutateCourse(ctx, func(c *course.Course) error {
		return c.MarkSubtopicComplete(index)
	})
}

// AdvanceSubtopic moves the focus to the next subtopic.
func (s *Session) AdvanceSubtopic(ctx context.Context) error {
	return s.mutateCourse(ctx, func(c *course.Course) error {
		return c.AdvanceSubtopic()
	})
}

func (s *Session) mutateCourse(ctx context.Context, mutate func(c *course.Course) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.course == nil {
		return ErrNoCourse
	}

	updated := s.course.Clone()
	if err := mutate(&updated); err != nil {
		return err
	}
	if err := s.write(ctx, CourseKey, updated); err != nil {
		return err
	}
	s.course = &updated
	return nil
}

// RecordAttempt appends attempt to the history and applies its outcome to the active course.
func (s *Session) RecordAttempt(ctx context.Context, attempt course.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.course == nil {
		return ErrNoCourse
	}

	updated := s.course.Clone()
	if err := updated.RecordQuizOutcome(attempt); err != nil {
		return err
	}

	attempts := append(append([]course.QuizAttempt(nil), s.attempts...), attempt)
	if err := s.write(ctx, AttemptsKey, attempts); err != nil {
		return err
	}
	s.attempts = attempts

	if err := s.write(ctx, CourseKey, updated); err != nil {
		return err
	}
	s.course = &updated
	return nil
}

// Recorder adapts the session to quiz.AttemptRecorder for quizzes run under ctx.
func (s *Session) Recorder(ctx context.Context) quiz.AttemptRecorder {
	return recorder{ctx: ctx, session: s}
}

type recorder struct {
	ctx     context.Context
	session *Session
}

func (r recorder) RecordAttempt(attempt course.QuizAttempt) error {
	return r.session.RecordAttempt(r.ctx, attempt)
}

// Clear removes the active course and the attempt history. The library is kept.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, CourseKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", CourseKey, err)
	}
	s.course = nil
	if err := s.store.Delete(ctx, AttemptsKey); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", AttemptsKey, err)
	}
	s.attempts = nil
	return nil
}

// NewSubtopicQuiz starts the quiz of the subtopic at index. The subtopic must be in focus and read.
func (s *Session) NewSubtopicQuiz(ctx context.Context, index int) (*quiz.Engine, error) {
	c, ok := s.Course()
	if !ok {
		return nil, ErrNoCourse
	}
	if index != c.CurrentSubtopic || c.Current() == nil || !c.Current().Completed {
		return nil, fmt.Errorf("start the quiz of subtopic %d before it is read: %w", index, course.ErrInvalidStateTransition)
	}

	engine, err := quiz.New(quiz.Config{
		Questions:     c.Subtopics[index].Quiz,
		PassingScore:  s.thresholds.SubtopicPassingScore,
		TimeLimit:     s.thresholds.TimeLimit,
		SubtopicIndex: course.SubtopicIndex(index),
		AllowRetake:   true,
		Recorder:      s.Recorder(ctx),
		Now:           s.now,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz.New() > %w", err)
	}
	return engine, nil
}

// NewFinalQuiz starts the final quiz. Every subtopic must be done.
func (s *Session) NewFinalQuiz(ctx context.Context) (*quiz.Engine, error) {
	c, ok := s.Course()
	if !ok {
		return nil, ErrNoCourse
	}
	if !c.ReadyForFinalQuiz() {
		return nil, fmt.Errorf("start the final quiz of %q: %w", c.Topic, course.ErrInvalidStateTransition)
	}

	engine, err := quiz.New(quiz.Config{
		Questions:    c.FinalQuiz,
		PassingScore: s.thresholds.FinalPassingScore,
		TimeLimit:    s.thresholds.TimeLimit,
		AllowRetake:  true,
		Recorder:     s.Recorder(ctx),
		Now:          s.now,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz.New() > %w", err)
	}
	return engine, nil
}
