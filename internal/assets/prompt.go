package assets

import (
	_ "embed"
	"fmt"
	"io"
)

const promptTemplateName = "course-prompt.txt.go.tmpl"

//go:embed templates/course-prompt.txt.go.tmpl
var coursePromptTemplate string

// PromptTemplate holds the topic and the structural quotas of a generation request
type PromptTemplate struct {
	Topic                    string
	Subtopics                []string
	FlashcardPoints          int
	SubtopicQuestions        int
	SubtopicFreeText         []int
	FinalQuestions           int
	FinalFreeText            []int
	OptionsPerMultipleChoice int
}

// WriteCoursePrompt renders the embedded generation prompt. The prompt cannot be overridden from the filesystem.
func WriteCoursePrompt(output io.Writer, templateData PromptTemplate) error {
	tmpl, err := parseTemplateWithFallback("", promptTemplateName, coursePromptTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
