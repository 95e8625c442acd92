package server

import (
	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/statistics"
)

const CourseServiceName = "learnai.v1.CourseService"

const (
	GenerateCourseProcedure       = "/" + CourseServiceName + "/GenerateCourse"
	GetCourseProcedure            = "/" + CourseServiceName + "/GetCourse"
	MarkSubtopicCompleteProcedure = "/" + CourseServiceName + "/MarkSubtopicComplete"
	SubmitQuizProcedure           = "/" + CourseServiceName + "/SubmitQuiz"
	AdvanceSubtopicProcedure      = "/" + CourseServiceName + "/AdvanceSubtopic"
	ListAttemptsProcedure         = "/" + CourseServiceName + "/ListAttempts"
	GetStatisticsProcedure        = "/" + CourseServiceName + "/GetStatistics"
	ListLibraryProcedure          = "/" + CourseServiceName + "/ListLibrary"
	DeleteLibraryEntryProcedure   = "/" + CourseServiceName + "/DeleteLibraryEntry"
	ClearCourseProcedure          = "/" + CourseServiceName + "/ClearCourse"
)

type GenerateCourseRequest struct {
	Topic     string   `json:"topic" validate:"required"`
	Subtopics []string `json:"subtopics" validate:"required,min=1"`
}

type GenerateCourseResponse struct {
	Course         course.Course `json:"course"`
	LibraryEntryID string        `json:"libraryEntryId"`
}

type GetCourseRequest struct{}

// CourseResponse carries the active course and the transitions it currently allows.
type CourseResponse struct {
	Course            course.Course `json:"course"`
	CanAdvance        bool          `json:"canAdvance"`
	ReadyForFinalQuiz bool          `json:"readyForFinalQuiz"`
}

type MarkSubtopicCompleteRequest struct {
	SubtopicIndex int `json:"subtopicIndex" validate:"gte=0"`
}

// SubmitQuizRequest answers a whole quiz at once. SubtopicIndex is omitted for the final quiz.
// Questions without an answer are scored as unanswered.
type SubmitQuizRequest struct {
	SubtopicIndex *int           `json:"subtopicIndex,omitempty" validate:"omitempty,gte=0"`
	Answers       map[int]string `json:"answers"`
}

type SubmitQuizResponse struct {
	Score   int                `json:"score"`
	Passed  bool               `json:"passed"`
	Correct int                `json:"correct"`
	Total   int                `json:"total"`
	Attempt course.QuizAttempt `json:"attempt"`
	Course  course.Course      `json:"course"`
}

type AdvanceSubtopicRequest struct{}

type ListAttemptsRequest struct{}

type ListAttemptsResponse struct {
	Attempts []course.QuizAttempt `json:"attempts"`
}

// GetStatisticsRequest filters the monthly periods; 0 means no filter.
type GetStatisticsRequest struct {
	Year  int `json:"year" validate:"gte=0"`
	Month int `json:"month" validate:"gte=0,lte=12"`
}

type GetStatisticsResponse struct {
	Statistics statistics.QuizStatistics `json:"statistics"`
}

type ListLibraryRequest struct{}

type ListLibraryResponse struct {
	Entries []library.Entry `json:"entries"`
}

type DeleteLibraryEntryRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteLibraryEntryResponse struct {
	Deleted bool `json:"deleted"`
}

type ClearCourseRequest struct{}

type ClearCourseResponse struct{}
