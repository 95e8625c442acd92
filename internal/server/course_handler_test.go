package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/learnai/internal/course"
	"github.com/at-ishikawa/learnai/internal/generator"
	"github.com/at-ishikawa/learnai/internal/inference"
	"github.com/at-ishikawa/learnai/internal/library"
	mock_inference "github.com/at-ishikawa/learnai/internal/mocks/inference"
	"github.com/at-ishikawa/learnai/internal/session"
	"github.com/at-ishikawa/learnai/internal/storage"
	"github.com/at-ishikawa/learnai/internal/testutil"
)

type testServer struct {
	client  *CourseServiceClient
	session *session.Session
	library *library.Index
}

func newTestServer(t *testing.T, inferenceClient inference.Client) testServer {
	t.Helper()

	store := storage.NewMemoryStore()
	index := library.NewIndex(store)
	sess := session.New(store, index, session.Thresholds{
		SubtopicPassingScore: 80,
		FinalPassingScore:    60,
		TimeLimit:            30,
	})
	sess.Load(context.Background())

	handler, err := NewCourseHandler(generator.New(inferenceClient, inference.DefaultGenerationConfig()), sess, index)
	require.NoError(t, err)

	path, h := NewCourseServiceHandler(handler)
	mux := http.NewServeMux()
	mux.Handle(path, h)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testServer{
		client:  NewCourseServiceClient(server.Client(), server.URL),
		session: sess,
		library: index,
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err))
}

// answersFor answers the first correctCount questions correctly and the rest wrongly.
func answersFor(questions []course.Question, correctCount int) map[int]string {
	answers := make(map[int]string, len(questions))
	for i, q := range questions {
		if i < correctCount {
			answers[q.ID] = q.Answer
			continue
		}
		answers[q.ID] = "wrong"
	}
	return answers
}

func TestCourseHandler_GenerateCourse(t *testing.T) {
	tests := []struct {
		name       string
		request    *GenerateCourseRequest
		setupMock  func(client *mock_inference.MockClient)
		wantCode   connect.Code
		wantErrMsg string
	}{
		{
			name:    "installs the generated course",
			request: &GenerateCourseRequest{Topic: "Algebra", Subtopics: []string{"Linear Equations"}},
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().GetModel().Return("gemini-2.0-flash").AnyTimes()
				client.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, req inference.GenerateRequest) (inference.GenerateResponse, error) {
						return inference.GenerateResponse{
							Text: testutil.CourseJSON(t, testutil.NewCourse("Algebra", "Linear Equations")),
						}, nil
					})
			},
		},
		{
			name:       "returns INVALID_ARGUMENT without a topic",
			request:    &GenerateCourseRequest{Subtopics: []string{"Linear Equations"}},
			setupMock:  func(client *mock_inference.MockClient) {},
			wantCode:   connect.CodeInvalidArgument,
			wantErrMsg: "topic is a required field",
		},
		{
			name:       "returns INVALID_ARGUMENT with only blank subtopics",
			request:    &GenerateCourseRequest{Topic: "Algebra", Subtopics: []string{" "}},
			setupMock:  func(client *mock_inference.MockClient) {},
			wantCode:   connect.CodeInvalidArgument,
			wantErrMsg: "invalid generation request",
		},
		{
			name:    "hides producer failures behind a generic message",
			request: &GenerateCourseRequest{Topic: "Algebra", Subtopics: []string{"Linear Equations"}},
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().GetModel().Return("gemini-2.0-flash").AnyTimes()
				client.EXPECT().Generate(gomock.Any(), gomock.Any()).
					Return(inference.GenerateResponse{}, errors.New("response error 401: invalid key"))
			},
			wantCode:   connect.CodeUnavailable,
			wantErrMsg: GenerationFailedMessage,
		},
		{
			name:    "hides unusable content behind a generic message",
			request: &GenerateCourseRequest{Topic: "Algebra", Subtopics: []string{"Linear Equations"}},
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().GetModel().Return("gemini-2.0-flash").AnyTimes()
				client.EXPECT().Generate(gomock.Any(), gomock.Any()).
					Return(inference.GenerateResponse{Text: "I cannot help with that."}, nil)
			},
			wantCode:   connect.CodeUnavailable,
			wantErrMsg: GenerationFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockClient := mock_inference.NewMockClient(ctrl)
			tt.setupMock(mockClient)
			ts := newTestServer(t, mockClient)

			resp, err := ts.client.GenerateCourse(context.Background(), tt.request)
			if tt.wantErrMsg != "" {
				assertCode(t, err, tt.wantCode)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.NotContains(t, err.Error(), "invalid key")
				_, ok := ts.session.Course()
				assert.False(t, ok)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Algebra", resp.Course.Topic)
			assert.Regexp(t, `^course_`, resp.LibraryEntryID)

			installed, ok := ts.session.Course()
			require.True(t, ok)
			assert.Equal(t, resp.Course.Topic, installed.Topic)
			assert.Len(t, installed.Subtopics, 1)

			entries, err := ts.library.List(context.Background())
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, resp.LibraryEntryID, entries[0].ID)
		})
	}
}

func TestCourseHandler_WithoutCourse(t *testing.T) {
	ts := newTestServer(t, mock_inference.NewMockClient(gomock.NewController(t)))
	ctx := context.Background()

	_, err := ts.client.GetCourse(ctx)
	assertCode(t, err, connect.CodeNotFound)

	_, err = ts.client.MarkSubtopicComplete(ctx, &MarkSubtopicCompleteRequest{})
	assertCode(t, err, connect.CodeNotFound)

	_, err = ts.client.GetStatistics(ctx, &GetStatisticsRequest{})
	assertCode(t, err, connect.CodeNotFound)

	attempts, err := ts.client.ListAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, attempts.Attempts)

	listed, err := ts.client.ListLibrary(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed.Entries)
}

func TestCourseHandler_StudyFlow(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t, mock_inference.NewMockClient(gomock.NewController(t)))

	algebra := testutil.NewCourse("Algebra", "Linear Equations", "Quadratics")
	entry, err := ts.session.InstallCourse(ctx, algebra)
	require.NoError(t, err)

	got, err := ts.client.GetCourse(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", got.Course.Topic)
	assert.False(t, got.CanAdvance)

	_, err = ts.client.SubmitQuiz(ctx, &SubmitQuizRequest{SubtopicIndex: course.SubtopicIndex(0)})
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = ts.client.MarkSubtopicComplete(ctx, &MarkSubtopicCompleteRequest{SubtopicIndex: 1})
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = ts.client.MarkSubtopicComplete(ctx, &MarkSubtopicCompleteRequest{SubtopicIndex: -1})
	assertCode(t, err, connect.CodeInvalidArgument)

	got, err = ts.client.MarkSubtopicComplete(ctx, &MarkSubtopicCompleteRequest{SubtopicIndex: 0})
	require.NoError(t, err)
	assert.True(t, got.Course.Subtopics[0].Completed)

	_, err = ts.client.SubmitQuiz(ctx, &SubmitQuizRequest{
		SubtopicIndex: course.SubtopicIndex(0),
		Answers:       map[int]string{99: "x"},
	})
	assertCode(t, err, connect.CodeInvalidArgument)

	result, err := ts.client.SubmitQuiz(ctx, &SubmitQuizRequest{
		SubtopicIndex: course.SubtopicIndex(0),
		Answers:       answersFor(algebra.Subtopics[0].Quiz, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 83, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 10, result.Correct)
	assert.Equal(t, 12, result.Total)
	assert.Len(t, result.Attempt.IncorrectQuestions, 2)
	assert.True(t, result.Course.Subtopics[0].QuizPassed)

	_, err = ts.client.SubmitQuiz(ctx, &SubmitQuizRequest{})
	assertCode(t, err, connect.CodeFailedPrecondition)

	got, err = ts.client.AdvanceSubtopic(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Course.CurrentSubtopic)

	_, err = ts.client.AdvanceSubtopic(ctx)
	assertCode(t, err, connect.CodeFailedPrecondition)

	attempts, err := ts.client.ListAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts.Attempts, 1)
	assert.Equal(t, 83, attempts.Attempts[0].Score)

	stats, err := ts.client.GetStatistics(ctx, &GetStatisticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Statistics.CompletedQuizzes)
	assert.Equal(t, 2, stats.Statistics.TotalQuizzes)
	assert.Equal(t, 83, stats.Statistics.AverageScore)
	require.Len(t, stats.Statistics.RecentAttempts, 1)
	assert.Equal(t, "Linear Equations", stats.Statistics.RecentAttempts[0].QuizName)

	_, err = ts.client.GetStatistics(ctx, &GetStatisticsRequest{Month: 13})
	assertCode(t, err, connect.CodeInvalidArgument)

	listed, err := ts.client.ListLibrary(ctx)
	require.NoError(t, err)
	require.Len(t, listed.Entries, 1)
	assert.False(t, listed.Entries[0].Subtopics[0].QuizPassed)

	require.NoError(t, ts.client.ClearCourse(ctx))
	_, err = ts.client.GetCourse(ctx)
	assertCode(t, err, connect.CodeNotFound)
	attempts, err = ts.client.ListAttempts(ctx)
	require.NoError(t, err)
	assert.Empty(t, attempts.Attempts)

	deleted, err := ts.client.DeleteLibraryEntry(ctx, &DeleteLibraryEntryRequest{ID: entry.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	deleted, err = ts.client.DeleteLibraryEntry(ctx, &DeleteLibraryEntryRequest{ID: entry.ID})
	require.NoError(t, err)
	assert.False(t, deleted.Deleted)

	_, err = ts.client.DeleteLibraryEntry(ctx, &DeleteLibraryEntryRequest{})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&SubmitQuizRequest{Answers: map[int]string{3: "x = 2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answers":{"3":"x = 2"}}`, string(data))

	var got SubmitQuizRequest
	require.NoError(t, codec.Unmarshal(data, &got))
	assert.Equal(t, "x = 2", got.Answers[3])

	require.NoError(t, codec.Unmarshal(nil, &got))
	assert.Error(t, codec.Unmarshal([]byte("{"), &got))
}
