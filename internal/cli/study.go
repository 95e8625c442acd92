package cli

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/explanation"
	"github.com/at-ishikawa/learnai/internal/statistics"
)

// StudyCLI walks the learner through the active course one step per Session call:
// read the subtopic in focus, pass its quiz, advance, and finally take the final quiz.
type StudyCLI struct {
	*InteractiveCLI
}

func NewStudyCLI(base *InteractiveCLI) *StudyCLI {
	return &StudyCLI{InteractiveCLI: base}
}

func (s *StudyCLI) Session(ctx context.Context) error {
	c, ok := s.session.Course()
	if !ok {
		s.printf("No course yet. Generate one with `learnai generate` first.\n")
		return errEnd
	}
	if c.FinalQuizCompleted {
		s.printCompletion(c)
		return errEnd
	}
	if c.ReadyForFinalQuiz() {
		return s.finalQuizStep(ctx, c)
	}

	current := c.Current()
	switch {
	case !current.Completed:
		return s.readStep(ctx, c)
	case !current.QuizPassed:
		return s.quizStep(ctx, c)
	case c.CanAdvance():
		next := c.Subtopics[c.CurrentSubtopic+1]
		ok, err := s.confirm(ctx, fmt.Sprintf("Continue to %q?", next.Name))
		if err != nil || !ok {
			return endOr(err)
		}
		if err := s.session.AdvanceSubtopic(ctx); err != nil {
			return fmt.Errorf("session.AdvanceSubtopic() > %w", err)
		}
		return nil
	}
	return errEnd
}

func (s *StudyCLI) readStep(ctx context.Context, c course.Course) error {
	if c.CurrentSubtopic == 0 {
		_, _ = s.bold.Fprintf(s.stdoutWriter, "\n%s\n", c.Topic)
		s.printf("%s\n", c.TopicIntro)
		_, _ = s.italic.Fprintf(s.stdoutWriter, "Real-life example: %s\n", c.RealLifeExample)
	}
	s.printSubtopic(c, c.CurrentSubtopic)

	reply, err := s.prompt(ctx, "Press Enter when you have finished reading (q to quit):")
	if err != nil || reply == "q" {
		return endOr(err)
	}
	if err := s.session.MarkSubtopicComplete(ctx, c.CurrentSubtopic); err != nil {
		return fmt.Errorf("session.MarkSubtopicComplete() > %w", err)
	}
	return nil
}

func (s *StudyCLI) quizStep(ctx context.Context, c course.Course) error {
	engine, err := s.session.NewSubtopicQuiz(ctx, c.CurrentSubtopic)
	if err != nil {
		return fmt.Errorf("session.NewSubtopicQuiz() > %w", err)
	}

	outcome, err := s.takeQuiz(ctx, "Quiz: "+c.Current().Name, engine, true)
	if err != nil {
		return err
	}
	switch outcome {
	case outcomeQuit:
		return errEnd
	case outcomeRelearn:
		s.printSubtopic(c, c.CurrentSubtopic)
		if _, err := s.prompt(ctx, "Press Enter to retake the quiz:"); err != nil {
			return err
		}
	}
	return nil
}

func (s *StudyCLI) finalQuizStep(ctx context.Context, c course.Course) error {
	ok, err := s.confirm(ctx, "All subtopics are done. Take the final quiz now?")
	if err != nil || !ok {
		return endOr(err)
	}

	engine, err := s.session.NewFinalQuiz(ctx)
	if err != nil {
		return fmt.Errorf("session.NewFinalQuiz() > %w", err)
	}
	outcome, err := s.takeQuiz(ctx, "Final Quiz: "+c.Topic, engine, false)
	if err != nil {
		return err
	}
	if outcome == outcomeQuit {
		return errEnd
	}
	return nil
}

func (s *StudyCLI) printSubtopic(c course.Course, index int) {
	subtopic := c.Subtopics[index]
	_, _ = s.bold.Fprintf(s.stdoutWriter, "\nSubtopic %d/%d: %s\n\n", index+1, len(c.Subtopics), subtopic.Name)
	s.printf("%s\n", explanation.PlainText(subtopic.Explanation))

	_, _ = s.bold.Fprintln(s.stdoutWriter, "\nKey points")
	for _, point := range subtopic.FlashcardPoints {
		s.printf("  • %s\n", point)
	}
	s.printf("\n")
}

func (s *StudyCLI) printCompletion(c course.Course) {
	stats := statistics.CalculateStatistics(c, s.session.Attempts(), 0, 0)
	_, _ = s.success.Fprintf(s.stdoutWriter, "\nCongratulations! You have completed %q.\n", c.Topic)
	s.printf("You finished %d subtopics and the final quiz in %d quiz attempts, averaging %d%%.\n",
		len(c.Subtopics), stats.TotalAttempts, stats.AverageScore)
	s.printf("Review the key points with `learnai flashcards review` or start a new course with `learnai generate`.\n")
}

// endOr ends the session quietly unless err is set.
func endOr(err error) error {
	if err != nil {
		return err
	}
	return errEnd
}
