package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/at-ishikawa/learnai/internal/library"
)

// Deck is a circular list of flashcard points with a flip side.
type Deck struct {
	points  []string
	current int
	flipped bool
}

func NewDeck(points []string) *Deck {
	return &Deck{points: points}
}

func (d *Deck) Len() int {
	return len(d.points)
}

func (d *Deck) Current() int {
	return d.current
}

func (d *Deck) Flipped() bool {
	return d.flipped
}

func (d *Deck) Back() string {
	return d.points[d.current]
}

func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next wraps around to the first card after the last one.
func (d *Deck) Next() {
	d.current = (d.current + 1) % len(d.points)
	d.flipped = false
}

// Previous wraps around to the last card before the first one.
func (d *Deck) Previous() {
	d.current = (d.current - 1 + len(d.points)) % len(d.points)
	d.flipped = false
}

// Jump moves to the 0-based index and reports whether it is in range.
func (d *Deck) Jump(index int) bool {
	if index < 0 || index >= len(d.points) {
		return false
	}
	d.current = index
	d.flipped = false
	return true
}

// FlashcardReviewCLI flips through the flashcard points of one subtopic of a library entry
type FlashcardReviewCLI struct {
	*InteractiveCLI
	subtopicName string
	deck         *Deck
}

func NewFlashcardReviewCLI(base *InteractiveCLI, entry library.Entry, subtopicIndex int) (*FlashcardReviewCLI, error) {
	if subtopicIndex < 0 || subtopicIndex >= len(entry.Subtopics) {
		return nil, fmt.Errorf("subtopic %d is out of range, %q has %d subtopics", subtopicIndex+1, entry.Topic, len(entry.Subtopics))
	}
	subtopic := entry.Subtopics[subtopicIndex]
	if len(subtopic.FlashcardPoints) == 0 {
		return nil, fmt.Errorf("subtopic %q has no flashcards", subtopic.Name)
	}
	return &FlashcardReviewCLI{
		InteractiveCLI: base,
		subtopicName:   subtopic.Name,
		deck:           NewDeck(subtopic.FlashcardPoints),
	}, nil
}

func (f *FlashcardReviewCLI) Session(ctx context.Context) error {
	_, _ = f.bold.Fprintf(f.stdoutWriter, "\n%s", f.subtopicName)
	f.printf(" (card %d/%d)\n", f.deck.Current()+1, f.deck.Len())
	if f.deck.Flipped() {
		f.printf("%s\n", f.deck.Back())
	} else {
		_, _ = f.italic.Fprintln(f.stdoutWriter, "Think about this concept, then flip the card.")
	}

	reply, err := f.prompt(ctx, "[Enter] flip  [n] next  [p] previous  [r] restart  [1-9] jump  [q] quit:")
	if err != nil {
		return err
	}
	switch reply {
	case "":
		f.deck.Flip()
	case "n":
		f.deck.Next()
	case "p":
		f.deck.Previous()
	case "r":
		f.deck.Jump(0)
	case "q":
		return errEnd
	default:
		number, err := strconv.Atoi(reply)
		if err != nil || !f.deck.Jump(number-1) {
			_, _ = f.warning.Fprintf(f.stdoutWriter, "Unknown command %q\n", reply)
		}
	}
	return nil
}
