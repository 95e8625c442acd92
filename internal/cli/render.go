package cli

import (
	"fmt"
	"io"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/statistics"
	"github.com/fatih/color"
)

var (
	boldColor    = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	mutedColor   = color.New(color.Faint)
)

// PrintCourseOverview prints the topic, the status of each subtopic and of the final quiz.
func PrintCourseOverview(w io.Writer, c course.Course) {
	_, _ = boldColor.Fprintf(w, "%s\n", c.Topic)
	_, _ = fmt.Fprintf(w, "%s\n\n", c.TopicIntro)

	for i, subtopic := range c.Subtopics {
		marker := "  "
		if i == c.CurrentSubtopic && !c.FinalQuizCompleted {
			marker = "> "
		}
		status := mutedColor.Sprint("not started")
		switch {
		case subtopic.IsDone():
			status = successColor.Sprint("passed")
		case subtopic.Completed:
			status = "read, quiz pending"
		}
		_, _ = fmt.Fprintf(w, "%s%d. %s [%s]\n", marker, i+1, subtopic.Name, status)
	}

	switch {
	case c.FinalQuizCompleted:
		_, _ = successColor.Fprintf(w, "\nFinal quiz passed. The course is complete.\n")
	case c.ReadyForFinalQuiz():
		_, _ = fmt.Fprintf(w, "\nThe final quiz is unlocked.\n")
	default:
		_, _ = mutedColor.Fprintf(w, "\nThe final quiz unlocks once every subtopic quiz is passed.\n")
	}
}

// PrintStatistics prints the score overview of the active course.
func PrintStatistics(w io.Writer, stats statistics.QuizStatistics) {
	_, _ = boldColor.Fprintf(w, "Quiz scores for %s\n", stats.Topic)
	_, _ = fmt.Fprintf(w, "Completed:     %d/%d\n", stats.CompletedQuizzes, stats.TotalQuizzes)
	_, _ = fmt.Fprintf(w, "Average score: %d%%\n", stats.AverageScore)
	_, _ = fmt.Fprintf(w, "Attempts:      %d\n", stats.TotalAttempts)
	_, _ = fmt.Fprintf(w, "Progress:      %d%%\n", stats.CompletionRate)

	_, _ = boldColor.Fprintln(w, "\nSubtopic performance")
	for _, subtopic := range stats.Subtopics {
		status := failureColor.Sprint("not passed")
		if subtopic.Passed {
			status = successColor.Sprint("passed")
		}
		_, _ = fmt.Fprintf(w, "  %s: %s, %d attempts\n", subtopic.Name, status, subtopic.Attempts)
	}

	_, _ = boldColor.Fprintln(w, "\nRecent attempts")
	if len(stats.RecentAttempts) == 0 {
		_, _ = mutedColor.Fprintln(w, "  No quiz attempts yet.")
	}
	for _, attempt := range stats.RecentAttempts {
		mark := failureColor.Sprint("✗")
		if attempt.Passed {
			mark = successColor.Sprint("✓")
		}
		_, _ = fmt.Fprintf(w, "  %s  %s  %d%% %s\n", attempt.Timestamp.Local().Format("2006-01-02"), attempt.QuizName, attempt.Score, mark)
	}

	if len(stats.RecentMistakes) > 0 {
		_, _ = boldColor.Fprintln(w, "\nReview incorrect questions")
		for _, attempt := range stats.RecentMistakes {
			_, _ = fmt.Fprintf(w, "  %s - recent mistakes\n", attempt.QuizName)
			for _, incorrect := range attempt.IncorrectQuestions {
				_, _ = fmt.Fprintf(w, "    %s\n", incorrect.Question)
				_, _ = failureColor.Fprintf(w, "      Your answer: %s\n", incorrect.UserAnswer)
				_, _ = successColor.Fprintf(w, "      Correct answer: %s\n", incorrect.CorrectAnswer)
			}
		}
	}

	if len(stats.Periods) > 0 {
		_, _ = boldColor.Fprintln(w, "\nBy month")
		for _, period := range stats.Periods {
			_, _ = fmt.Fprintf(w, "  %s: %d attempts, %d passed, average %d%%\n", period.Period, period.Attempts, period.Passed, period.AverageScore)
		}
	}
}

// PrintLibrary lists the library entries with their flashcard counts.
func PrintLibrary(w io.Writer, entries []library.Entry) {
	if len(entries) == 0 {
		_, _ = mutedColor.Fprintln(w, "The library is empty. Generate a course to add one.")
		return
	}
	_, _ = boldColor.Fprintf(w, "Your course library (%d courses)\n", len(entries))
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s  %s  %d subtopics, %d flashcards, created %s\n",
			entry.ID, entry.Topic, len(entry.Subtopics), entry.FlashcardCount(), entry.CreatedAt.Local().Format("2006-01-02"))
		for i, subtopic := range entry.Subtopics {
			_, _ = mutedColor.Fprintf(w, "    %d. %s (%d flashcards)\n", i+1, subtopic.Name, len(subtopic.FlashcardPoints))
		}
	}
}
