// Package library keeps a persisted list of course snapshots for flashcard review.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/storage"
	"github.com/google/uuid"
)

// StorageKey is the persisted entry holding the library list.
const StorageKey = "storedCourses"

// Entry is a snapshot of a course taken when it was installed.
type Entry struct {
	ID        string            `json:"id" yaml:"id"`
	Topic     string            `json:"topic" yaml:"topic"`
	Subtopics []course.Subtopic `json:"subtopics" yaml:"subtopics"`
	CreatedAt time.Time         `json:"createdAt" yaml:"created_at"`
}

// FlashcardCount returns the number of flashcard points over all subtopics.
func (e Entry) FlashcardCount() int {
	count := 0
	for _, subtopic := range e.Subtopics {
		count += len(subtopic.FlashcardPoints)
	}
	return count
}

// Index is the library list. It never follows progress made on the active course.
type Index struct {
	store storage.Store
	now   func() time.Time
	newID func() string
}

func NewIndex(store storage.Store) *Index {
	return &Index{
		store: store,
		now:   time.Now,
		newID: func() string {
			return "course_" + uuid.NewString()
		},
	}
}

// List returns the entries, newest insertion first. A corrupt list is logged and treated as empty.
func (index *Index) List(ctx context.Context) ([]Entry, error) {
	data, ok, err := index.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", StorageKey, err)
	}
	if !ok {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Default().Warn("ignoring a corrupt library list",
			slog.String("key", StorageKey),
			slog.Any("error", err),
		)
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Find returns the entry with id.
func (index *Index) Find(ctx context.Context, id string) (Entry, bool, error) {
	entries, err := index.List(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}

// Upsert snapshots c. An entry with the same topic is replaced at its position;
// otherwise the snapshot is prepended.
func (index *Index) Upsert(ctx context.Context, c course.Course) (Entry, error) {
	entries, err := index.List(ctx)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:        index.newID(),
		Topic:     c.Topic,
		Subtopics: c.CloneSubtopics(),
		CreatedAt: index.now(),
	}

	replaced := false
	for i := range entries {
		if entries[i].Topic == c.Topic {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append([]Entry{entry}, entries...)
	}

	if err := index.save(ctx, entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes the entry with id and reports whether it existed.
func (index *Index) Delete(ctx context.Context, id string) (bool, error) {
	entries, err := index.List(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := index.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (index *Index) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("json.Marshal() > %w", err)
	}
	if err := index.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", StorageKey, err)
	}
	return nil
}
