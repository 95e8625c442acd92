package generator

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/schemas"
	"github.com/xeipuuv/gojsonschema"
)

var loadCourseSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemas.CourseSchema))
})

// Parse extracts the course object from the producer's raw text and validates it.
// Every failure wraps ErrContentFormat. Progress flags are reset on success.
func Parse(text string) (course.Course, error) {
	document, ok := ExtractJSON(text)
	if !ok {
		return course.Course{}, fmt.Errorf("no JSON object in response: %w", ErrContentFormat)
	}

	schema, err := loadCourseSchema()
	if err != nil {
		return course.Course{}, fmt.Errorf("gojsonschema.NewSchema() > %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return course.Course{}, fmt.Errorf("schema.Validate() > %v: %w", err, ErrContentFormat)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return course.Course{}, fmt.Errorf("invalid course document: %s: %w", strings.Join(messages, "; "), ErrContentFormat)
	}

	var generated course.Course
	if err := json.Unmarshal([]byte(document), &generated); err != nil {
		return course.Course{}, fmt.Errorf("json.Unmarshal() > %v: %w", err, ErrContentFormat)
	}
	if err := checkQuestions(generated); err != nil {
		return course.Course{}, fmt.Errorf("%v: %w", err, ErrContentFormat)
	}

	generated.ResetProgress()
	warnQuotaMismatches(generated)
	return generated, nil
}

func checkQuestions(generated course.Course) error {
	for i, subtopic := range generated.Subtopics {
		if err := checkQuiz(subtopic.Quiz); err != nil {
			return fmt.Errorf("subtopic %d (%s): %w", i, subtopic.Name, err)
		}
	}
	if err := checkQuiz(generated.FinalQuiz); err != nil {
		return fmt.Errorf("final quiz: %w", err)
	}
	return nil
}

func checkQuiz(questions []course.Question) error {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
		if !q.HasAnswerOption() {
			return fmt.Errorf("question %d: answer %q is not one of its options", q.ID, q.Answer)
		}
	}
	return nil
}

// warnQuotaMismatches logs structural quotas the producer did not meet.
// The course stays usable, so these are not errors.
func warnQuotaMismatches(generated course.Course) {
	logger := slog.Default().With("topic", generated.Topic)
	for i, subtopic := range generated.Subtopics {
		if len(subtopic.FlashcardPoints) != FlashcardPointsPerSubtopic {
			logger.Warn("unexpected flashcard point count",
				"subtopic", i,
				"got", len(subtopic.FlashcardPoints),
				"want", FlashcardPointsPerSubtopic,
			)
		}
		if len(subtopic.Quiz) != QuestionsPerSubtopic {
			logger.Warn("unexpected subtopic question count",
				"subtopic", i,
				"got", len(subtopic.Quiz),
				"want", QuestionsPerSubtopic,
			)
		}
		if positions := freeTextPositions(subtopic.Quiz); !slices.Equal(positions, SubtopicFreeTextPositions) {
			logger.Warn("unexpected subtopic free-text positions", "subtopic", i, "got", positions)
		}
	}
	if len(generated.FinalQuiz) != FinalQuizQuestions {
		logger.Warn("unexpected final question count",
			"got", len(generated.FinalQuiz),
			"want", FinalQuizQuestions,
		)
	}
	if positions := freeTextPositions(generated.FinalQuiz); !slices.Equal(positions, FinalFreeTextPositions) {
		logger.Warn("unexpected final free-text positions", "got", positions)
	}
}

func freeTextPositions(questions []course.Question) []int {
	var positions []int
	for i, q := range questions {
		if _, ok := q.Format.(course.FreeText); ok {
			positions = append(positions, i+1)
		}
	}
	return positions
}
