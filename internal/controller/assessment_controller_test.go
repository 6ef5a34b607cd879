package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-assess-be/internal/dto"
	"credit-assess-be/internal/pkg/apperror"
	"credit-assess-be/internal/pkg/serverutils"
)

type stubAssessmentService struct {
	initFn               func(sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error)
	generateNarrativeFn  func(sessionId string) (*dto.GenerateNarrativeResponse, error)
	submitFeedbackFn     func(sessionId, text string) (*dto.SubmitFeedbackResponse, error)
	generateCreditNoteFn func(sessionId string) (*dto.GenerateCreditNoteResponse, error)
	submitNoteFeedbackFn func(sessionId, text string) (*dto.SubmitFeedbackResponse, error)
}

func (s *stubAssessmentService) InitAssessment(_ context.Context, sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error) {
	return s.initFn(sessionId, req)
}

func (s *stubAssessmentService) GenerateNarrative(_ context.Context, sessionId string) (*dto.GenerateNarrativeResponse, error) {
	return s.generateNarrativeFn(sessionId)
}

func (s *stubAssessmentService) SubmitNarrativeFeedback(_ context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	return s.submitFeedbackFn(sessionId, req.Text)
}

func (s *stubAssessmentService) GenerateCreditNote(_ context.Context, sessionId string) (*dto.GenerateCreditNoteResponse, error) {
	return s.generateCreditNoteFn(sessionId)
}

func (s *stubAssessmentService) SubmitCreditNoteFeedback(_ context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	return s.submitNoteFeedbackFn(sessionId, req.Text)
}

func newTestApp(svc *stubAssessmentService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewAssessmentController(svc, time.Hour).RegisterRoutes(api)
	return app
}

func postJSON(app *fiber.App, path, body, token string) (*fiber.App, int, map[string]interface{}, error) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		return app, 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return app, resp.StatusCode, nil, err
	}
	var parsed map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return app, resp.StatusCode, nil, err
		}
	}
	return app, resp.StatusCode, parsed, nil
}

func TestInitIssuesSessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubAssessmentService{
		initFn: func(sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error) {
			assert.Empty(t, sessionId)
			assert.Equal(t, "Acme Corp loan", req.Query)
			return &dto.InitAssessmentResponse{SessionId: "s-1"}, nil
		},
	}
	app := newTestApp(svc)

	_, status, body, err := postJSON(app, "/api/assessment/v1/init", `{"query":"Acme Corp loan"}`, "")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "s-1", data["session_id"])
	assert.NotEmpty(t, data["token"])
}

func TestInitRejectsMissingQuery(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubAssessmentService{
		initFn: func(sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error) {
			t.Fatal("service must not be reached on invalid input")
			return nil, nil
		},
	}
	app := newTestApp(svc)

	_, status, _, err := postJSON(app, "/api/assessment/v1/init", `{}`, "")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestNarrativeRequiresToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newTestApp(&stubAssessmentService{})

	_, status, _, err := postJSON(app, "/api/assessment/v1/narrative", `{}`, "")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorKindStatusMapping(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "session not found",
			err:        apperror.SessionNotFound("s-1"),
			wantStatus: fiber.StatusNotFound,
			wantType:   "SESSION_NOT_FOUND",
		},
		{
			name:       "precondition failed",
			err:        apperror.PreconditionFailed("narrative required first"),
			wantStatus: fiber.StatusConflict,
			wantType:   "PRECONDITION_FAILED",
		},
		{
			name:       "generation error",
			err:        apperror.Generation("narrative generation failed", fmt.Errorf("upstream")),
			wantStatus: fiber.StatusInternalServerError,
			wantType:   "GENERATION_ERROR",
		},
		{
			name:       "generation timeout",
			err:        apperror.GenerationTimeout("narrative generation failed", context.DeadlineExceeded),
			wantStatus: fiber.StatusGatewayTimeout,
			wantType:   "GENERATION_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAssessmentService{
				generateNarrativeFn: func(sessionId string) (*dto.GenerateNarrativeResponse, error) {
					return nil, tt.err
				},
			}
			app := newTestApp(svc)

			token, err := serverutils.IssueSessionToken("s-1", time.Hour)
			require.NoError(t, err)

			_, status, body, err := postJSON(app, "/api/assessment/v1/narrative", ``, token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, body["error_type"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestFeedbackProcessingErrorMapsTo422(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubAssessmentService{
		submitFeedbackFn: func(sessionId, text string) (*dto.SubmitFeedbackResponse, error) {
			return nil, apperror.FeedbackProcessing("feedback interpretation failed", fmt.Errorf("boom"))
		},
	}
	app := newTestApp(svc)

	token, err := serverutils.IssueSessionToken("s-1", time.Hour)
	require.NoError(t, err)

	_, status, body, err := postJSON(app, "/api/assessment/v1/narrative/feedback", `{"text":"too optimistic"}`, token)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "FEEDBACK_PROCESSING_ERROR", body["error_type"])
}

func TestCreditNoteFeedbackRoutesToNoteTrack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := &stubAssessmentService{
		submitNoteFeedbackFn: func(sessionId, text string) (*dto.SubmitFeedbackResponse, error) {
			assert.Equal(t, "s-9", sessionId)
			assert.Equal(t, "tighten wording", text)
			return &dto.SubmitFeedbackResponse{FeedbackCount: 3}, nil
		},
	}
	app := newTestApp(svc)

	token, err := serverutils.IssueSessionToken("s-9", time.Hour)
	require.NoError(t, err)

	_, status, body, err := postJSON(app, "/api/assessment/v1/credit-note/feedback", `{"text":"tighten wording"}`, token)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["feedback_count"])
}
