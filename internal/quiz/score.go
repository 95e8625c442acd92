package quiz

import (
	"math"
	"strings"

	"github.com/at-ishikawa/learnai/internal/course"
)

// Evaluate counts correct answers and collects the missed questions.
// A missing or blank answer is incorrect and recorded as course.NoAnswer.
func Evaluate(questions []course.Question, answers map[int]string) (int, []course.IncorrectQuestion) {
	correct := 0
	var incorrect []course.IncorrectQuestion
	for _, q := range questions {
		given := answers[q.ID]
		if q.IsCorrect(given) {
			correct++
			continue
		}

		if strings.TrimSpace(given) == "" {
			given = course.NoAnswer
		}
		incorrect = append(incorrect, course.IncorrectQuestion{
			Question:      q.Prompt,
			UserAnswer:    given,
			CorrectAnswer: q.Answer,
		})
	}
	return correct, incorrect
}

// Percentage returns round(100 * correct / total).
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
