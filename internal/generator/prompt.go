package generator

import (
	"bytes"
	"fmt"

	"github.com/at-ishikawa/learnai/internal/assets"
)

// Structural quotas requested from the content producer.
const (
	FlashcardPointsPerSubtopic = 8
	QuestionsPerSubtopic       = 12
	FinalQuizQuestions         = 25
	OptionsPerMultipleChoice   = 4
)

var (
	// SubtopicFreeTextPositions are the 1-based positions of free-text questions in a subtopic quiz.
	SubtopicFreeTextPositions = []int{3, 6, 9, 12}
	// FinalFreeTextPositions are the 1-based positions of free-text questions in the final quiz.
	FinalFreeTextPositions = []int{5, 10, 15, 20, 25}
)

// BuildPrompt renders the natural-language generation request for a normalized request.
func BuildPrompt(request Request) (string, error) {
	var buf bytes.Buffer
	if err := assets.WriteCoursePrompt(&buf, assets.PromptTemplate{
		Topic:                    request.Topic,
		Subtopics:                request.Subtopics,
		FlashcardPoints:          FlashcardPointsPerSubtopic,
		SubtopicQuestions:        QuestionsPerSubtopic,
		SubtopicFreeText:         SubtopicFreeTextPositions,
		FinalQuestions:           FinalQuizQuestions,
		FinalFreeText:            FinalFreeTextPositions,
		OptionsPerMultipleChoice: OptionsPerMultipleChoice,
	}); err != nil {
		return "", fmt.Errorf("assets.WriteCoursePrompt() > %w", err)
	}
	return buf.String(), nil
}
