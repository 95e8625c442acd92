// Package datasync copies the persisted course, quiz attempts and library between storage backends.
package datasync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/session"
	"github.com/at-ishikawa/learnai/internal/storage"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	New     int
	Skipped int
	Updated int
	Missing int
	Invalid int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer copies values from one store into another.
type Importer struct {
	source storage.Store
	target storage.Store
	writer io.Writer
}

func NewImporter(source, target storage.Store, writer io.Writer) *Importer {
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

type key struct {
	name     string
	validate func(data []byte) error
}

var keys = []key{
	{name: session.CourseKey, validate: validateCourse},
	{name: session.AttemptsKey, validate: validateAttempts},
	{name: library.StorageKey, validate: validateLibrary},
}

// Import copies the active course, the attempt history and the library.
// Values that do not decode are reported and left out.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	for _, k := range keys {
		if err := imp.importKey(ctx, k, opts, &result); err != nil {
			return nil, fmt.Errorf("importKey(%s) > %w", k.name, err)
		}
	}
	return &result, nil
}

func (imp *Importer) importKey(ctx context.Context, k key, opts ImportOptions, result *ImportResult) error {
	data, ok, err := imp.source.Get(ctx, k.name)
	if err != nil {
		return fmt.Errorf("source.Get() > %w", err)
	}
	if !ok {
		fmt.Fprintf(imp.writer, "  [MISSING]  %s\n", k.name)
		result.Missing++
		return nil
	}
	if err := k.validate(data); err != nil {
		fmt.Fprintf(imp.writer, "  [INVALID]  %s: %v\n", k.name, err)
		result.Invalid++
		return nil
	}

	_, exists, err := imp.target.Get(ctx, k.name)
	if err != nil {
		return fmt.Errorf("target.Get() > %w", err)
	}
	if exists && !opts.UpdateExisting {
		fmt.Fprintf(imp.writer, "  [SKIP]  %s\n", k.name)
		result.Skipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.target.Set(ctx, k.name, data); err != nil {
			return fmt.Errorf("target.Set() > %w", err)
		}
	}
	if exists {
		fmt.Fprintf(imp.writer, "  [UPDATE]  %s\n", k.name)
		result.Updated++
		return nil
	}
	fmt.Fprintf(imp.writer, "  [NEW]  %s\n", k.name)
	result.New++
	return nil
}

func validateCourse(data []byte) error {
	var c course.Course
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	return c.Validate()
}

func validateAttempts(data []byte) error {
	var attempts []course.QuizAttempt
	return json.Unmarshal(data, &attempts)
}

func validateLibrary(data []byte) error {
	var entries []library.Entry
	return json.Unmarshal(data, &entries)
}
