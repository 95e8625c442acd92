package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/at-ishikawa/learnai/internal/course"
)

const (
	// RecentAttemptsLimit is the number of attempts listed in RecentAttempts.
	RecentAttemptsLimit = 5
	// RecentMistakesLimit is the number of attempts with missed questions listed in RecentMistakes.
	RecentMistakesLimit = 3
	// FinalQuizName labels attempts at the final quiz.
	FinalQuizName = "Final Quiz"
)

// SubtopicStatistics summarizes the quiz of one subtopic
type SubtopicStatistics struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Attempts int    `json:"attempts"`
}

// PeriodStatistics holds attempt counts for a month ("2025-06")
type PeriodStatistics struct {
	Period       string `json:"period"`
	Attempts     int    `json:"attempts"`
	Passed       int    `json:"passed"`
	AverageScore int    `json:"averageScore"`
}

// LabeledAttempt is an attempt with the name of the quiz it was taken at
type LabeledAttempt struct {
	QuizName string `json:"quizName"`
	course.QuizAttempt
}

// QuizStatistics holds the score overview of the active course
type QuizStatistics struct {
	Topic            string               `json:"topic"`
	CompletedQuizzes int                  `json:"completedQuizzes"` // Subtopics whose quiz was passed
	TotalQuizzes     int                  `json:"totalQuizzes"`     // Subtopic count, plus one once the final quiz is completed
	CompletionRate   int                  `json:"completionRate"`
	AverageScore     int                  `json:"averageScore"`
	TotalAttempts    int                  `json:"totalAttempts"`
	Subtopics        []SubtopicStatistics `json:"subtopics"`
	RecentAttempts   []LabeledAttempt     `json:"recentAttempts"` // Newest first
	RecentMistakes   []LabeledAttempt     `json:"recentMistakes"` // Oldest first
	Periods          []PeriodStatistics   `json:"periods"`
}

type periodData struct {
	attempts   int
	passed     int
	scoreTotal int
}

// CalculateStatistics summarizes attempts over c.
// It accepts optional year and month filters (0 means no filter) that only apply to Periods.
func CalculateStatistics(c course.Course, attempts []course.QuizAttempt, year, month int) QuizStatistics {
	result := QuizStatistics{
		Topic:          c.Topic,
		TotalQuizzes:   len(c.Subtopics),
		TotalAttempts:  len(attempts),
		Subtopics:      make([]SubtopicStatistics, 0, len(c.Subtopics)),
		RecentAttempts: []LabeledAttempt{},
		RecentMistakes: []LabeledAttempt{},
	}
	if c.FinalQuizCompleted {
		result.TotalQuizzes++
	}

	for i, subtopic := range c.Subtopics {
		if subtopic.QuizPassed {
			result.CompletedQuizzes++
		}
		count := 0
		for _, attempt := range attempts {
			if attempt.IsForSubtopic(i) {
				count++
			}
		}
		result.Subtopics = append(result.Subtopics, SubtopicStatistics{
			Name:     subtopic.Name,
			Passed:   subtopic.QuizPassed,
			Attempts: count,
		})
	}
	result.CompletionRate = percentage(result.CompletedQuizzes, result.TotalQuizzes)

	scoreTotal := 0
	for _, attempt := range attempts {
		scoreTotal += attempt.Score
	}
	if len(attempts) > 0 {
		result.AverageScore = int(math.Round(float64(scoreTotal) / float64(len(attempts))))
	}

	// Attempts are stored oldest first, so walk backwards for the newest ones
	for i := len(attempts) - 1; i >= 0 && len(result.RecentAttempts) < RecentAttemptsLimit; i-- {
		result.RecentAttempts = append(result.RecentAttempts, label(c, attempts[i]))
	}

	var mistakes []LabeledAttempt
	for _, attempt := range attempts {
		if len(attempt.IncorrectQuestions) > 0 {
			mistakes = append(mistakes, label(c, attempt))
		}
	}
	if len(mistakes) > RecentMistakesLimit {
		mistakes = mistakes[len(mistakes)-RecentMistakesLimit:]
	}
	result.RecentMistakes = append(result.RecentMistakes, mistakes...)

	result.Periods = calculatePeriods(attempts, year, month)
	return result
}

// QuizName returns the subtopic name of a subtopic attempt or FinalQuizName.
// An index outside the course is shown by number.
func QuizName(c course.Course, attempt course.QuizAttempt) string {
	if attempt.IsFinal() {
		return FinalQuizName
	}
	index := *attempt.SubtopicIndex
	if index < 0 || index >= len(c.Subtopics) {
		return fmt.Sprintf("Subtopic %d", index+1)
	}
	return c.Subtopics[index].Name
}

func label(c course.Course, attempt course.QuizAttempt) LabeledAttempt {
	return LabeledAttempt{
		QuizName:    QuizName(c, attempt),
		QuizAttempt: attempt,
	}
}

func calculatePeriods(attempts []course.QuizAttempt, year, month int) []PeriodStatistics {
	stats := make(map[string]*periodData)
	for _, attempt := range attempts {
		// Skip zero dates
		if attempt.Timestamp.IsZero() {
			continue
		}
		attemptYear := attempt.Timestamp.Year()
		attemptMonth := int(attempt.Timestamp.Month())
		if !matchesFilter(attemptYear, attemptMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", attemptYear, attemptMonth)
		if stats[period] == nil {
			stats[period] = &periodData{}
		}
		stats[period].attempts++
		stats[period].scoreTotal += attempt.Score
		if attempt.Passed {
			stats[period].passed++
		}
	}

	periods := make([]PeriodStatistics, 0, len(stats))
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:       period,
			Attempts:     data.attempts,
			Passed:       data.passed,
			AverageScore: int(math.Round(float64(data.scoreTotal) / float64(data.attempts))),
		})
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})
	return periods
}

func matchesFilter(attemptYear, attemptMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if attemptYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return attemptMonth == filterMonth
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
