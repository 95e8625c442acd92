package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/quiz"
)

// Remaining seconds at which a question warns about its time budget
var timeWarnings = map[int]bool{10: true, 5: true}

const optionLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// quizOutcome is what the learner chose after the results of a quiz
type quizOutcome int

const (
	outcomeDone quizOutcome = iota
	outcomeRelearn
	outcomeQuit
)

// takeQuiz runs engine until it is passed or the learner stops retaking it.
// Reviewing the explanation is offered after a failed attempt when allowRelearn is set.
func (cli *InteractiveCLI) takeQuiz(ctx context.Context, title string, engine *quiz.Engine, allowRelearn bool) (quizOutcome, error) {
	for {
		_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\n%s\n", title)
		cli.printf("%d questions, %d%% to pass, %d seconds per question. Press Enter without an answer to skip.\n",
			engine.QuestionCount(), engine.PassingScore(), engine.TimeRemaining())

		result, err := cli.runQuiz(ctx, engine)
		if err != nil {
			return outcomeQuit, err
		}
		if result.Passed || !engine.CanRestart() {
			return outcomeDone, nil
		}

		message := "[r] retake the quiz"
		if allowRelearn {
			message += "  [e] review the explanation"
		}
		message += "  [q] quit:"
		for {
			reply, err := cli.prompt(ctx, message)
			if err != nil {
				return outcomeQuit, err
			}
			switch {
			case reply == "r":
				if err := engine.Restart(); err != nil {
					return outcomeQuit, fmt.Errorf("engine.Restart() > %w", err)
				}
			case reply == "e" && allowRelearn:
				return outcomeRelearn, nil
			case reply == "q":
				return outcomeQuit, nil
			default:
				continue
			}
			break
		}
	}
}

// runQuiz asks every question of engine. Each question is submitted by the learner or when its time runs out.
func (cli *InteractiveCLI) runQuiz(ctx context.Context, engine *quiz.Engine) (quiz.Result, error) {
	for engine.State() == quiz.StateActive {
		index := engine.CurrentIndex()
		cli.printQuestion(engine)

		ticks, stop := cli.newTicker()
		err := cli.waitForSubmission(ctx, engine, index, ticks)
		stop()
		if err != nil {
			return quiz.Result{}, err
		}
	}

	result, _ := engine.Result()
	cli.printResult(result)
	return result, nil
}

func (cli *InteractiveCLI) waitForSubmission(ctx context.Context, engine *quiz.Engine, index int, ticks <-chan time.Time) error {
	for engine.State() == quiz.StateActive && engine.CurrentIndex() == index {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-cli.lines:
			if !ok {
				return io.EOF
			}
			if err := cli.submit(engine, line); err != nil {
				return err
			}
		case <-ticks:
			if err := engine.Tick(); err != nil {
				return fmt.Errorf("engine.Tick() > %w", err)
			}
			if engine.State() != quiz.StateActive || engine.CurrentIndex() != index {
				_, _ = cli.warning.Fprintln(cli.stdoutWriter, "\nTime's up!")
				continue
			}
			if timeWarnings[engine.TimeRemaining()] {
				_, _ = cli.warning.Fprintf(cli.stdoutWriter, "\n%d seconds left\n", engine.TimeRemaining())
			}
		}
	}
	return nil
}

// submit answers the current question with line and moves on.
// A multiple-choice reply is either an option letter or the option text.
func (cli *InteractiveCLI) submit(engine *quiz.Engine, line string) error {
	question := engine.CurrentQuestion()
	reply := strings.TrimSpace(line)
	if reply != "" {
		answer := reply
		if options := question.Options(); options != nil {
			var ok bool
			answer, ok = chooseOption(options, reply)
			if !ok {
				_, _ = cli.warning.Fprintf(cli.stdoutWriter, "Choose %s-%s: ", optionLetters[:1], optionLetters[len(options)-1:len(options)])
				return nil
			}
		}
		if err := engine.Answer(question.ID, answer); err != nil {
			return fmt.Errorf("engine.Answer() > %w", err)
		}
	}
	if err := engine.Advance(); err != nil {
		return fmt.Errorf("engine.Advance() > %w", err)
	}
	return nil
}

func chooseOption(options []string, reply string) (string, bool) {
	if len(reply) == 1 {
		index := strings.Index(optionLetters, strings.ToUpper(reply))
		if index >= 0 && index < len(options) {
			return options[index], true
		}
	}
	for _, option := range options {
		if course.NormalizeAnswer(option) == course.NormalizeAnswer(reply) {
			return option, true
		}
	}
	return "", false
}

func (cli *InteractiveCLI) printQuestion(engine *quiz.Engine) {
	question := engine.CurrentQuestion()
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\nQuestion %d/%d", engine.CurrentIndex()+1, engine.QuestionCount())
	cli.printf(" (%ds)\n%s\n", engine.TimeRemaining(), question.Prompt)

	options := question.Options()
	if options == nil {
		_, _ = cli.italic.Fprint(cli.stdoutWriter, "Type your answer: ")
		return
	}
	for i, option := range options {
		cli.printf("  %c) %s\n", optionLetters[i], option)
	}
	_, _ = cli.italic.Fprint(cli.stdoutWriter, "Your choice: ")
}

func (cli *InteractiveCLI) printResult(result quiz.Result) {
	if result.Passed {
		_, _ = cli.success.Fprintf(cli.stdoutWriter, "\nCongratulations! You scored %d%%", result.Score)
	} else {
		_, _ = cli.failure.Fprintf(cli.stdoutWriter, "\nKeep trying! You scored %d%%", result.Score)
	}
	cli.printf(" (%d of %d correct)\n", result.Correct, result.Total)

	for _, incorrect := range result.Attempt.IncorrectQuestions {
		cli.printf("\n  %s\n", incorrect.Question)
		_, _ = cli.failure.Fprintf(cli.stdoutWriter, "    Your answer: %s\n", incorrect.UserAnswer)
		_, _ = cli.success.Fprintf(cli.stdoutWriter, "    Correct answer: %s\n", incorrect.CorrectAnswer)
	}
}
