package statistics

import (
	"testing"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func subtopicAttempt(index, score int, passed bool, date string, missed ...string) course.QuizAttempt {
	attempt := course.QuizAttempt{
		SubtopicIndex: course.SubtopicIndex(index),
		Score:         score,
		Passed:        passed,
		Timestamp:     mustParseDate(date),
	}
	for _, question := range missed {
		attempt.IncorrectQuestions = append(attempt.IncorrectQuestions, course.IncorrectQuestion{
			Question:      question,
			UserAnswer:    course.NoAnswer,
			CorrectAnswer: "answer",
		})
	}
	return attempt
}

func finalAttempt(score int, passed bool, date string) course.QuizAttempt {
	return course.QuizAttempt{Score: score, Passed: passed, Timestamp: mustParseDate(date)}
}

func TestCalculateStatistics(t *testing.T) {
	algebra := testutil.NewCourse("Algebra", "Linear Equations", "Quadratics")
	algebra.Subtopics[0].Completed = true
	algebra.Subtopics[0].QuizPassed = true

	finished := algebra.Clone()
	finished.Subtopics[1].Completed = true
	finished.Subtopics[1].QuizPassed = true
	finished.FinalQuizCompleted = true

	tests := []struct {
		name                 string
		course               course.Course
		attempts             []course.QuizAttempt
		wantCompleted        int
		wantTotal            int
		wantCompletionRate   int
		wantAverage          int
		wantSubtopicAttempts []int
	}{
		{
			name:                 "no attempts",
			course:               testutil.NewCourse("Algebra", "Linear Equations", "Quadratics"),
			wantTotal:            2,
			wantSubtopicAttempts: []int{0, 0},
		},
		{
			name:   "one subtopic passed after a retake",
			course: algebra,
			attempts: []course.QuizAttempt{
				subtopicAttempt(0, 50, false, "2025-06-01", "q1"),
				subtopicAttempt(0, 83, true, "2025-06-01", "q2"),
			},
			wantCompleted:        1,
			wantTotal:            2,
			wantCompletionRate:   50,
			wantAverage:          67,
			wantSubtopicAttempts: []int{2, 0},
		},
		{
			name:   "finished course counts the final quiz in the total only",
			course: finished,
			attempts: []course.QuizAttempt{
				subtopicAttempt(0, 100, true, "2025-06-01"),
				subtopicAttempt(1, 92, true, "2025-06-02"),
				finalAttempt(60, true, "2025-06-03"),
			},
			wantCompleted:        2,
			wantTotal:            3,
			wantCompletionRate:   67,
			wantAverage:          84,
			wantSubtopicAttempts: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatistics(tt.course, tt.attempts, 0, 0)

			assert.Equal(t, "Algebra", got.Topic)
			assert.Equal(t, tt.wantCompleted, got.CompletedQuizzes)
			assert.Equal(t, tt.wantTotal, got.TotalQuizzes)
			assert.Equal(t, tt.wantCompletionRate, got.CompletionRate)
			assert.Equal(t, tt.wantAverage, got.AverageScore)
			assert.Equal(t, len(tt.attempts), got.TotalAttempts)

			require.Len(t, got.Subtopics, len(tt.course.Subtopics))
			for i, subtopic := range got.Subtopics {
				assert.Equal(t, tt.course.Subtopics[i].Name, subtopic.Name)
				assert.Equal(t, tt.course.Subtopics[i].QuizPassed, subtopic.Passed)
				assert.Equal(t, tt.wantSubtopicAttempts[i], subtopic.Attempts)
			}
		})
	}
}

func TestCalculateStatistics_RecentAttempts(t *testing.T) {
	c := testutil.NewCourse("Algebra", "Linear Equations")
	var attempts []course.QuizAttempt
	for score := 10; score <= 70; score += 10 {
		attempts = append(attempts, subtopicAttempt(0, score, false, "2025-06-01"))
	}
	attempts = append(attempts, finalAttempt(90, true, "2025-06-02"))

	got := CalculateStatistics(c, attempts, 0, 0)

	require.Len(t, got.RecentAttempts, RecentAttemptsLimit)
	var scores []int
	for _, attempt := range got.RecentAttempts {
		scores = append(scores, attempt.Score)
	}
	assert.Equal(t, []int{90, 70, 60, 50, 40}, scores)
	assert.Equal(t, FinalQuizName, got.RecentAttempts[0].QuizName)
	assert.Equal(t, "Linear Equations", got.RecentAttempts[1].QuizName)
}

func TestCalculateStatistics_RecentMistakes(t *testing.T) {
	c := testutil.NewCourse("Algebra", "Linear Equations")
	attempts := []course.QuizAttempt{
		subtopicAttempt(0, 50, false, "2025-06-01", "first"),
		subtopicAttempt(0, 100, true, "2025-06-01"),
		subtopicAttempt(0, 92, true, "2025-06-02", "second"),
		subtopicAttempt(0, 92, true, "2025-06-03", "third"),
		subtopicAttempt(0, 92, true, "2025-06-04", "fourth"),
	}

	got := CalculateStatistics(c, attempts, 0, 0)

	require.Len(t, got.RecentMistakes, RecentMistakesLimit)
	var questions []string
	for _, attempt := range got.RecentMistakes {
		questions = append(questions, attempt.IncorrectQuestions[0].Question)
	}
	assert.Equal(t, []string{"second", "third", "fourth"}, questions)
}

func TestCalculateStatistics_Periods(t *testing.T) {
	c := testutil.NewCourse("Algebra", "Linear Equations")
	attempts := []course.QuizAttempt{
		subtopicAttempt(0, 50, false, "2025-05-30"),
		subtopicAttempt(0, 83, true, "2025-06-01"),
		finalAttempt(61, true, "2025-06-15"),
		finalAttempt(40, false, "2024-06-15"),
		{SubtopicIndex: course.SubtopicIndex(0), Score: 100, Passed: true},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  []PeriodStatistics
	}{
		{
			name: "no filter",
			want: []PeriodStatistics{
				{Period: "2025-06", Attempts: 2, Passed: 2, AverageScore: 72},
				{Period: "2025-05", Attempts: 1, Passed: 0, AverageScore: 50},
				{Period: "2024-06", Attempts: 1, Passed: 0, AverageScore: 40},
			},
		},
		{
			name: "year filter",
			year: 2024,
			want: []PeriodStatistics{
				{Period: "2024-06", Attempts: 1, Passed: 0, AverageScore: 40},
			},
		},
		{
			name:  "year and month filter",
			year:  2025,
			month: 5,
			want: []PeriodStatistics{
				{Period: "2025-05", Attempts: 1, Passed: 0, AverageScore: 50},
			},
		},
		{
			name:  "no matching period",
			year:  2023,
			month: 1,
			want:  []PeriodStatistics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatistics(c, attempts, tt.year, tt.month)
			assert.Equal(t, tt.want, got.Periods)
		})
	}
}

func TestQuizName(t *testing.T) {
	c := testutil.NewCourse("Algebra", "Linear Equations")
	assert.Equal(t, "Linear Equations", QuizName(c, subtopicAttempt(0, 0, false, "2025-06-01")))
	assert.Equal(t, FinalQuizName, QuizName(c, finalAttempt(0, false, "2025-06-01")))
	assert.Equal(t, "Subtopic 4", QuizName(c, subtopicAttempt(3, 0, false, "2025-06-01")))
}
