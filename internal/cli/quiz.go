package cli

import (
	"context"
	"fmt"
)

// QuizCLI runs one quiz of the active course: the quiz of the subtopic in focus, or the final quiz.
type QuizCLI struct {
	*InteractiveCLI
	final bool
}

func NewQuizCLI(base *InteractiveCLI, final bool) *QuizCLI {
	return &QuizCLI{InteractiveCLI: base, final: final}
}

func (q *QuizCLI) Session(ctx context.Context) error {
	c, ok := q.session.Course()
	if !ok {
		q.printf("No course yet. Generate one with `learnai generate` first.\n")
		return errEnd
	}

	if q.final {
		engine, err := q.session.NewFinalQuiz(ctx)
		if err != nil {
			return fmt.Errorf("session.NewFinalQuiz() > %w", err)
		}
		if _, err := q.takeQuiz(ctx, "Final Quiz: "+c.Topic, engine, false); err != nil {
			return err
		}
		return errEnd
	}

	engine, err := q.session.NewSubtopicQuiz(ctx, c.CurrentSubtopic)
	if err != nil {
		return fmt.Errorf("session.NewSubtopicQuiz() > %w", err)
	}
	if _, err := q.takeQuiz(ctx, "Quiz: "+c.Current().Name, engine, false); err != nil {
		return err
	}
	return errEnd
}
