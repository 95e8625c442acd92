// Package server provides Connect RPC handlers for the course service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/generator"
	"github.com/at-ishikawa/learnai/internal/library"
	"github.com/at-ishikawa/learnai/internal/quiz"
	"github.com/at-ishikawa/learnai/internal/session"
	"github.com/at-ishikawa/learnai/internal/statistics"
)

// GenerationFailedMessage is the only detail a client sees when a course cannot be generated.
const GenerationFailedMessage = "Failed to generate course. Please try again."

// CourseGenerator produces a course from a learner request.
type CourseGenerator interface {
	Generate(ctx context.Context, request generator.Request) (course.Course, error)
}

// CourseHandler implements the course service.
type CourseHandler struct {
	generator CourseGenerator
	session   *session.Session
	library   *library.Index

	validate *validator.Validate
	trans    ut.Translator
}

// NewCourseHandler creates a new CourseHandler. sess must already be loaded.
func NewCourseHandler(courseGenerator CourseGenerator, sess *session.Session, index *library.Index) (*CourseHandler, error) {
	validate := validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &CourseHandler{
		generator: courseGenerator,
		session:   sess,
		library:   index,
		validate:  validate,
		trans:     trans,
	}, nil
}

// NewCourseServiceHandler builds an HTTP handler for every procedure and returns the path to mount it on.
func NewCourseServiceHandler(h *CourseHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GenerateCourseProcedure, connect.NewUnaryHandler(GenerateCourseProcedure, h.GenerateCourse, opts...))
	mux.Handle(GetCourseProcedure, connect.NewUnaryHandler(GetCourseProcedure, h.GetCourse, opts...))
	mux.Handle(MarkSubtopicCompleteProcedure, connect.NewUnaryHandler(MarkSubtopicCompleteProcedure, h.MarkSubtopicComplete, opts...))
	mux.Handle(SubmitQuizProcedure, connect.NewUnaryHandler(SubmitQuizProcedure, h.SubmitQuiz, opts...))
	mux.Handle(AdvanceSubtopicProcedure, connect.NewUnaryHandler(AdvanceSubtopicProcedure, h.AdvanceSubtopic, opts...))
	mux.Handle(ListAttemptsProcedure, connect.NewUnaryHandler(ListAttemptsProcedure, h.ListAttempts, opts...))
	mux.Handle(GetStatisticsProcedure, connect.NewUnaryHandler(GetStatisticsProcedure, h.GetStatistics, opts...))
	mux.Handle(ListLibraryProcedure, connect.NewUnaryHandler(ListLibraryProcedure, h.ListLibrary, opts...))
	mux.Handle(DeleteLibraryEntryProcedure, connect.NewUnaryHandler(DeleteLibraryEntryProcedure, h.DeleteLibraryEntry, opts...))
	mux.Handle(ClearCourseProcedure, connect.NewUnaryHandler(ClearCourseProcedure, h.ClearCourse, opts...))
	return "/" + CourseServiceName + "/", mux
}

// GenerateCourse generates a course and installs it as the active course.
func (h *CourseHandler) GenerateCourse(
	ctx context.Context,
	req *connect.Request[GenerateCourseRequest],
) (*connect.Response[GenerateCourseResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	generated, err := h.generator.Generate(ctx, generator.Request{
		Topic:     req.Msg.Topic,
		Subtopics: req.Msg.Subtopics,
	})
	if err != nil {
		switch {
		case errors.Is(err, generator.ErrInvalidRequest):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, generator.ErrGenerationInProgress):
			return nil, connect.NewError(connect.CodeAborted, err)
		}
		slog.Default().Error("course generation failed",
			slog.String("topic", req.Msg.Topic),
			slog.Any("error", err),
		)
		return nil, connect.NewError(connect.CodeUnavailable, errors.New(GenerationFailedMessage))
	}

	entry, err := h.session.InstallCourse(ctx, generated)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("install course: %w", err))
	}

	return connect.NewResponse(&GenerateCourseResponse{
		Course:         generated,
		LibraryEntryID: entry.ID,
	}), nil
}

// GetCourse returns the active course.
func (h *CourseHandler) GetCourse(
	ctx context.Context,
	req *connect.Request[GetCourseRequest],
) (*connect.Response[CourseResponse], error) {
	return h.courseResponse()
}

// MarkSubtopicComplete marks the subtopic in focus as read.
func (h *CourseHandler) MarkSubtopicComplete(
	ctx context.Context,
	req *connect.Request[MarkSubtopicCompleteRequest],
) (*connect.Response[CourseResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := h.session.MarkSubtopicComplete(ctx, req.Msg.SubtopicIndex); err != nil {
		return nil, toConnectError(fmt.Errorf("mark subtopic complete: %w", err))
	}
	return h.courseResponse()
}

// SubmitQuiz scores a complete set of answers and records the attempt.
func (h *CourseHandler) SubmitQuiz(
	ctx context.Context,
	req *connect.Request[SubmitQuizRequest],
) (*connect.Response[SubmitQuizResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	var engine *quiz.Engine
	var err error
	if req.Msg.SubtopicIndex == nil {
		engine, err = h.session.NewFinalQuiz(ctx)
	} else {
		engine, err = h.session.NewSubtopicQuiz(ctx, *req.Msg.SubtopicIndex)
	}
	if err != nil {
		return nil, toConnectError(fmt.Errorf("start quiz: %w", err))
	}

	for questionID, answer := range req.Msg.Answers {
		if err := engine.Answer(questionID, answer); err != nil {
			return nil, toConnectError(fmt.Errorf("answer: %w", err))
		}
	}
	for engine.State() == quiz.StateActive {
		if err := engine.Advance(); err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("submit quiz: %w", err))
		}
	}

	result, _ := engine.Result()
	c, _ := h.session.Course()
	return connect.NewResponse(&SubmitQuizResponse{
		Score:   result.Score,
		Passed:  result.Passed,
		Correct: result.Correct,
		Total:   result.Total,
		Attempt: result.Attempt,
		Course:  c,
	}), nil
}

// AdvanceSubtopic moves the focus to the next subtopic.
func (h *CourseHandler) AdvanceSubtopic(
	ctx context.Context,
	req *connect.Request[AdvanceSubtopicRequest],
) (*connect.Response[CourseResponse], error) {
	if err := h.session.AdvanceSubtopic(ctx); err != nil {
		return nil, toConnectError(fmt.Errorf("advance subtopic: %w", err))
	}
	return h.courseResponse()
}

// ListAttempts returns the attempt history in insertion order.
func (h *CourseHandler) ListAttempts(
	ctx context.Context,
	req *connect.Request[ListAttemptsRequest],
) (*connect.Response[ListAttemptsResponse], error) {
	attempts := h.session.Attempts()
	if attempts == nil {
		attempts = []course.QuizAttempt{}
	}
	return connect.NewResponse(&ListAttemptsResponse{Attempts: attempts}), nil
}

// GetStatistics returns the score overview of the active course.
func (h *CourseHandler) GetStatistics(
	ctx context.Context,
	req *connect.Request[GetStatisticsRequest],
) (*connect.Response[GetStatisticsResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	c, ok := h.session.Course()
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, session.ErrNoCourse)
	}
	return connect.NewResponse(&GetStatisticsResponse{
		Statistics: statistics.CalculateStatistics(c, h.session.Attempts(), req.Msg.Year, req.Msg.Month),
	}), nil
}

// ListLibrary returns the course snapshots kept for flashcard review.
func (h *CourseHandler) ListLibrary(
	ctx context.Context,
	req *connect.Request[ListLibraryRequest],
) (*connect.Response[ListLibraryResponse], error) {
	entries, err := h.library.List(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("list library: %w", err))
	}
	return connect.NewResponse(&ListLibraryResponse{Entries: entries}), nil
}

// DeleteLibraryEntry removes a snapshot. Deleting an unknown id is not an error.
func (h *CourseHandler) DeleteLibraryEntry(
	ctx context.Context,
	req *connect.Request[DeleteLibraryEntryRequest],
) (*connect.Response[DeleteLibraryEntryResponse], error) {
	if err := h.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	deleted, err := h.library.Delete(ctx, req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("delete library entry(%s): %w", req.Msg.ID, err))
	}
	return connect.NewResponse(&DeleteLibraryEntryResponse{Deleted: deleted}), nil
}

// ClearCourse removes the active course and the attempt history.
func (h *CourseHandler) ClearCourse(
	ctx context.Context,
	req *connect.Request[ClearCourseRequest],
) (*connect.Response[ClearCourseResponse], error) {
	if err := h.session.Clear(ctx); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("clear course: %w", err))
	}
	return connect.NewResponse(&ClearCourseResponse{}), nil
}

func (h *CourseHandler) courseResponse() (*connect.Response[CourseResponse], error) {
	c, ok := h.session.Course()
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, session.ErrNoCourse)
	}
	return connect.NewResponse(&CourseResponse{
		Course:            c,
		CanAdvance:        c.CanAdvance(),
		ReadyForFinalQuiz: c.ReadyForFinalQuiz(),
	}), nil
}

func (h *CourseHandler) validateRequest(msg any) error {
	err := h.validate.Struct(msg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(h.trans))
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(messages, "; ")))
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoCourse):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, course.ErrInvalidStateTransition),
		errors.Is(err, quiz.ErrInvalidQuizConfiguration):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, quiz.ErrUnknownQuestion):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
