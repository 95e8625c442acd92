package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// CourseServiceClient calls the course service with the JSON codec.
type CourseServiceClient struct {
	generateCourse       *connect.Client[GenerateCourseRequest, GenerateCourseResponse]
	getCourse            *connect.Client[GetCourseRequest, CourseResponse]
	markSubtopicComplete *connect.Client[MarkSubtopicCompleteRequest, CourseResponse]
	submitQuiz           *connect.Client[SubmitQuizRequest, SubmitQuizResponse]
	advanceSubtopic      *connect.Client[AdvanceSubtopicRequest, CourseResponse]
	listAttempts         *connect.Client[ListAttemptsRequest, ListAttemptsResponse]
	getStatistics        *connect.Client[GetStatisticsRequest, GetStatisticsResponse]
	listLibrary          *connect.Client[ListLibraryRequest, ListLibraryResponse]
	deleteLibraryEntry   *connect.Client[DeleteLibraryEntryRequest, DeleteLibraryEntryResponse]
	clearCourse          *connect.Client[ClearCourseRequest, ClearCourseResponse]
}

func NewCourseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CourseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &CourseServiceClient{
		generateCourse:       connect.NewClient[GenerateCourseRequest, GenerateCourseResponse](httpClient, baseURL+GenerateCourseProcedure, opts...),
		getCourse:            connect.NewClient[GetCourseRequest, CourseResponse](httpClient, baseURL+GetCourseProcedure, opts...),
		markSubtopicComplete: connect.NewClient[MarkSubtopicCompleteRequest, CourseResponse](httpClient, baseURL+MarkSubtopicCompleteProcedure, opts...),
		submitQuiz:           connect.NewClient[SubmitQuizRequest, SubmitQuizResponse](httpClient, baseURL+SubmitQuizProcedure, opts...),
		advanceSubtopic:      connect.NewClient[AdvanceSubtopicRequest, CourseResponse](httpClient, baseURL+AdvanceSubtopicProcedure, opts...),
		listAttempts:         connect.NewClient[ListAttemptsRequest, ListAttemptsResponse](httpClient, baseURL+ListAttemptsProcedure, opts...),
		getStatistics:        connect.NewClient[GetStatisticsRequest, GetStatisticsResponse](httpClient, baseURL+GetStatisticsProcedure, opts...),
		listLibrary:          connect.NewClient[ListLibraryRequest, ListLibraryResponse](httpClient, baseURL+ListLibraryProcedure, opts...),
		deleteLibraryEntry:   connect.NewClient[DeleteLibraryEntryRequest, DeleteLibraryEntryResponse](httpClient, baseURL+DeleteLibraryEntryProcedure, opts...),
		clearCourse:          connect.NewClient[ClearCourseRequest, ClearCourseResponse](httpClient, baseURL+ClearCourseProcedure, opts...),
	}
}

func (c *CourseServiceClient) GenerateCourse(ctx context.Context, req *GenerateCourseRequest) (*GenerateCourseResponse, error) {
	return call(ctx, c.generateCourse, req)
}

func (c *CourseServiceClient) GetCourse(ctx context.Context) (*CourseResponse, error) {
	return call(ctx, c.getCourse, &GetCourseRequest{})
}

func (c *CourseServiceClient) MarkSubtopicComplete(ctx context.Context, req *MarkSubtopicCompleteRequest) (*CourseResponse, error) {
	return call(ctx, c.markSubtopicComplete, req)
}

func (c *CourseServiceClient) SubmitQuiz(ctx context.Context, req *SubmitQuizRequest) (*SubmitQuizResponse, error) {
	return call(ctx, c.submitQuiz, req)
}

func (c *CourseServiceClient) AdvanceSubtopic(ctx context.Context) (*CourseResponse, error) {
	return call(ctx, c.advanceSubtopic, &AdvanceSubtopicRequest{})
}

func (c *CourseServiceClient) ListAttempts(ctx context.Context) (*ListAttemptsResponse, error) {
	return call(ctx, c.listAttempts, &ListAttemptsRequest{})
}

func (c *CourseServiceClient) GetStatistics(ctx context.Context, req *GetStatisticsRequest) (*GetStatisticsResponse, error) {
	return call(ctx, c.getStatistics, req)
}

func (c *CourseServiceClient) ListLibrary(ctx context.Context) (*ListLibraryResponse, error) {
	return call(ctx, c.listLibrary, &ListLibraryRequest{})
}

func (c *CourseServiceClient) DeleteLibraryEntry(ctx context.Context, req *DeleteLibraryEntryRequest) (*DeleteLibraryEntryResponse, error) {
	return call(ctx, c.deleteLibraryEntry, req)
}

func (c *CourseServiceClient) ClearCourse(ctx context.Context) error {
	_, err := call(ctx, c.clearCourse, &ClearCourseRequest{})
	return err
}

func call[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
