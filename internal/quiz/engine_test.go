package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
	mock_quiz "github.com/at-ishikawa/learnai/internal/mocks/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newQuestions(n int) []course.Question {
	questions := make([]course.Question, 0, n)
	for i := 1; i <= n; i++ {
		if i%3 == 0 {
			questions = append(questions, course.NewFreeText(i, fmt.Sprintf("question %d", i), fmt.Sprintf("answer%d", i)))
			continue
		}
		questions = append(questions, course.NewMultipleChoice(
			i,
			fmt.Sprintf("question %d", i),
			[]string{fmt.Sprintf("answer%d", i), "wrong 1", "wrong 2", "wrong 3"},
			fmt.Sprintf("answer%d", i),
		))
	}
	return questions
}

// answerAll answers the first correctCount questions correctly and the rest wrongly, advancing after each.
func answerAll(t *testing.T, engine *Engine, questions []course.Question, correctCount int) {
	t.Helper()
	for i, q := range questions {
		require.Equal(t, i, engine.CurrentIndex())
		answer := "wrong"
		if i < correctCount {
			answer = q.Answer
		}
		require.NoError(t, engine.Answer(q.ID, answer))
		require.NoError(t, engine.Advance())
	}
}

type attemptLog struct {
	attempts []course.QuizAttempt
}

func (l *attemptLog) RecordAttempt(attempt course.QuizAttempt) error {
	l.attempts = append(l.attempts, attempt)
	return nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid configuration",
			cfg:  Config{Questions: newQuestions(3), PassingScore: 80, TimeLimit: DefaultTimeLimit},
		},
		{
			name:    "no questions",
			cfg:     Config{PassingScore: 80, TimeLimit: DefaultTimeLimit},
			wantErr: true,
		},
		{
			name:    "zero time limit",
			cfg:     Config{Questions: newQuestions(3), PassingScore: 80},
			wantErr: true,
		},
		{
			name:    "negative time limit",
			cfg:     Config{Questions: newQuestions(3), PassingScore: 80, TimeLimit: -1},
			wantErr: true,
		},
		{
			name:    "passing score above 100",
			cfg:     Config{Questions: newQuestions(3), PassingScore: 101, TimeLimit: DefaultTimeLimit},
			wantErr: true,
		},
		{
			name: "duplicate question ids",
			cfg: Config{
				Questions: []course.Question{
					course.NewFreeText(1, "a", "a"),
					course.NewFreeText(1, "b", "b"),
				},
				PassingScore: 80,
				TimeLimit:    DefaultTimeLimit,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidQuizConfiguration))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateActive, got.State())
			assert.Equal(t, 0, got.CurrentIndex())
			assert.Equal(t, tt.cfg.TimeLimit, got.TimeRemaining())
		})
	}
}

func TestEngine_Scoring(t *testing.T) {
	tests := []struct {
		name          string
		questionCount int
		correctCount  int
		passingScore  int
		wantScore     int
		wantPassed    bool
	}{
		{
			name:          "8 of 10",
			questionCount: 10,
			correctCount:  8,
			passingScore:  80,
			wantScore:     80,
			wantPassed:    true,
		},
		{
			name:          "3 of 7 rounds to 43",
			questionCount: 7,
			correctCount:  3,
			passingScore:  80,
			wantScore:     43,
			wantPassed:    false,
		},
		{
			name:          "10 of 12 passes 80",
			questionCount: 12,
			correctCount:  10,
			passingScore:  80,
			wantScore:     83,
			wantPassed:    true,
		},
		{
			name:          "15 of 25 passes the final threshold",
			questionCount: 25,
			correctCount:  15,
			passingScore:  60,
			wantScore:     60,
			wantPassed:    true,
		},
		{
			name:          "none correct",
			questionCount: 4,
			correctCount:  0,
			passingScore:  80,
			wantScore:     0,
			wantPassed:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := newQuestions(tt.questionCount)
			log := &attemptLog{}
			engine, err := New(Config{
				Questions:    questions,
				PassingScore: tt.passingScore,
				TimeLimit:    DefaultTimeLimit,
				Recorder:     log,
				Now:          func() time.Time { return fixedNow },
			})
			require.NoError(t, err)

			answerAll(t, engine, questions, tt.correctCount)

			result, ok := engine.Result()
			require.True(t, ok)
			assert.Equal(t, StateResults, engine.State())
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.correctCount, result.Correct)

			require.Len(t, log.attempts, 1)
			attempt := log.attempts[0]
			assert.True(t, attempt.IsFinal())
			assert.Equal(t, tt.wantScore, attempt.Score)
			assert.Equal(t, tt.wantPassed, attempt.Passed)
			assert.Equal(t, fixedNow, attempt.Timestamp)
			assert.Len(t, attempt.IncorrectQuestions, tt.questionCount-tt.correctCount)
		})
	}
}

func TestEngine_CaseAndWhitespaceInsensitive(t *testing.T) {
	engine, err := New(Config{
		Questions:    []course.Question{course.NewFreeText(1, "The capital of France is ____", "paris")},
		PassingScore: 100,
		TimeLimit:    DefaultTimeLimit,
	})
	require.NoError(t, err)

	require.NoError(t, engine.Answer(1, " Paris "))
	require.NoError(t, engine.Advance())

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Nil(t, result.Attempt.IncorrectQuestions)
}

func TestEngine_AnswerOverwrites(t *testing.T) {
	questions := newQuestions(2)
	engine, err := New(Config{Questions: questions, PassingScore: 50, TimeLimit: DefaultTimeLimit})
	require.NoError(t, err)

	require.NoError(t, engine.Answer(questions[0].ID, "wrong 1"))
	require.NoError(t, engine.Answer(questions[0].ID, questions[0].Answer))
	assert.Equal(t, 0, engine.CurrentIndex(), "answering does not advance")

	got, ok := engine.AnswerFor(questions[0].ID)
	assert.True(t, ok)
	assert.Equal(t, questions[0].Answer, got)

	assert.ErrorIs(t, engine.Answer(99, "x"), ErrUnknownQuestion)
}

func TestEngine_TimeoutSubmitsCurrentAnswer(t *testing.T) {
	questions := newQuestions(2)
	log := &attemptLog{}
	engine, err := New(Config{
		Questions:     questions,
		PassingScore:  50,
		TimeLimit:     3,
		SubtopicIndex: course.SubtopicIndex(0),
		Recorder:      log,
	})
	require.NoError(t, err)

	require.NoError(t, engine.Answer(questions[0].ID, questions[0].Answer))
	require.NoError(t, engine.Tick())
	require.NoError(t, engine.Tick())
	assert.Equal(t, 1, engine.TimeRemaining())
	assert.Equal(t, 0, engine.CurrentIndex())

	require.NoError(t, engine.Tick())
	assert.Equal(t, 1, engine.CurrentIndex(), "timeout advances")
	assert.Equal(t, 3, engine.TimeRemaining(), "time budget resets")

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Tick())
	}
	assert.Equal(t, StateResults, engine.State())
	assert.ErrorIs(t, engine.Tick(), ErrNotActive)
	assert.ErrorIs(t, engine.Answer(questions[1].ID, "x"), ErrNotActive)

	require.Len(t, log.attempts, 1)
	attempt := log.attempts[0]
	assert.True(t, attempt.IsForSubtopic(0))
	assert.Equal(t, 50, attempt.Score)
	assert.True(t, attempt.Passed)
	assert.Equal(t, []course.IncorrectQuestion{
		{Question: questions[1].Prompt, UserAnswer: course.NoAnswer, CorrectAnswer: questions[1].Answer},
	}, attempt.IncorrectQuestions)
}

func TestEngine_Restart(t *testing.T) {
	tests := []struct {
		name         string
		allowRetake  bool
		correctCount int
		wantErr      bool
	}{
		{
			name:         "failed attempt with retake",
			allowRetake:  true,
			correctCount: 0,
		},
		{
			name:         "failed attempt without retake",
			allowRetake:  false,
			correctCount: 0,
			wantErr:      true,
		},
		{
			name:         "passed attempt",
			allowRetake:  true,
			correctCount: 2,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			recorder := mock_quiz.NewMockAttemptRecorder(ctrl)
			recorder.EXPECT().RecordAttempt(gomock.Any()).Return(nil).Times(1)

			questions := newQuestions(2)
			engine, err := New(Config{
				Questions:    questions,
				PassingScore: 80,
				TimeLimit:    DefaultTimeLimit,
				AllowRetake:  tt.allowRetake,
				Recorder:     recorder,
			})
			require.NoError(t, err)
			answerAll(t, engine, questions, tt.correctCount)

			err = engine.Restart()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRestartNotAllowed)
				assert.Equal(t, StateResults, engine.State())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateActive, engine.State())
			assert.Equal(t, 0, engine.CurrentIndex())
			assert.Equal(t, DefaultTimeLimit, engine.TimeRemaining())
			_, ok := engine.AnswerFor(questions[0].ID)
			assert.False(t, ok, "answers are cleared")
			_, ok = engine.Result()
			assert.False(t, ok)
		})
	}
}

func TestEngine_RecorderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := mock_quiz.NewMockAttemptRecorder(ctrl)
	recorder.EXPECT().RecordAttempt(gomock.Any()).Return(errors.New("disk full"))

	questions := newQuestions(1)
	engine, err := New(Config{Questions: questions, PassingScore: 80, TimeLimit: DefaultTimeLimit, Recorder: recorder})
	require.NoError(t, err)

	err = engine.Advance()
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, StateResults, engine.State())
	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, 0, result.Score)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 80, Percentage(8, 10))
	assert.Equal(t, 43, Percentage(3, 7))
	assert.Equal(t, 83, Percentage(10, 12))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 0, Percentage(0, 0))
}
