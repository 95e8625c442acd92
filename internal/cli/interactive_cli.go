package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/at-ishikawa/learnai/internal/session"
	"github.com/fatih/color"
)

var errEnd = errors.New("end")

// InteractiveCLI contains shared logic for the interactive study, quiz and flashcard CLIs
type InteractiveCLI struct {
	session      *session.Session
	lines        <-chan string
	stdoutWriter io.Writer
	newTicker    func() (<-chan time.Time, func())
	bold         *color.Color
	italic       *color.Color
	success      *color.Color
	failure      *color.Color
	warning      *color.Color
}

// NewInteractiveCLI reads learner input line by line from input in a background goroutine.
func NewInteractiveCLI(sess *session.Session, input io.Reader, output io.Writer) *InteractiveCLI {
	return &InteractiveCLI{
		session:      sess,
		lines:        readLines(input),
		stdoutWriter: output,
		newTicker: func() (<-chan time.Time, func()) {
			ticker := time.NewTicker(time.Second)
			return ticker.C, ticker.Stop
		},
		bold:    color.New(color.Bold),
		italic:  color.New(color.Italic),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
	}
}

func readLines(input io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// readLine waits for the next input line. A closed input is reported as io.EOF.
func (cli *InteractiveCLI) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-cli.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// prompt prints message and returns the trimmed, lower-cased reply.
func (cli *InteractiveCLI) prompt(ctx context.Context, message string) (string, error) {
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s ", message)
	line, err := cli.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// confirm treats an empty reply as yes.
func (cli *InteractiveCLI) confirm(ctx context.Context, message string) (bool, error) {
	reply, err := cli.prompt(ctx, message+" [Y/n]")
	if err != nil {
		return false, err
	}
	return reply == "" || reply == "y" || reply == "yes", nil
}

func (cli *InteractiveCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}

//go:generate mockgen -source=interactive_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(ctx context.Context) error
}

// Run calls session.Session until it ends, fails, the input closes or the process is interrupted.
func (cli *InteractiveCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		cli.printf("\nReceived interrupt signal, exiting...\n")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}
