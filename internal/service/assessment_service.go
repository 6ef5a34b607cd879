package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"credit-assess-be/internal/dto"
	"credit-assess-be/internal/pkg/apperror"
	"credit-assess-be/internal/pkg/lock"
	"credit-assess-be/internal/pkg/logger"
	"credit-assess-be/internal/repository/contract"
	"credit-assess-be/pkg/agent"
	"credit-assess-be/pkg/events"
	"credit-assess-be/pkg/prompt"
	"credit-assess-be/pkg/store"
)

// IAssessmentService is the session workflow state machine. Every operation
// is serialized per session id; operations on different sessions run in
// parallel. A failed agent call leaves the stored record untouched.
type IAssessmentService interface {
	InitAssessment(ctx context.Context, sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error)
	GenerateNarrative(ctx context.Context, sessionId string) (*dto.GenerateNarrativeResponse, error)
	SubmitNarrativeFeedback(ctx context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
	GenerateCreditNote(ctx context.Context, sessionId string) (*dto.GenerateCreditNoteResponse, error)
	SubmitCreditNoteFeedback(ctx context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
}

type assessmentService struct {
	sessionRepo      contract.ISessionRepository
	narrativeAgent   agent.NarrativeGenerator
	scoringAgent     agent.Scorer
	feedbackAgent    agent.FeedbackInterpreter
	creditNoteAgent  agent.CreditNoteGenerator
	publisherService IPublisherService
	sysLogger        logger.ILogger
	locks            *lock.KeyedMutex
	agentTimeout     time.Duration
}

func NewAssessmentService(
	sessionRepo contract.ISessionRepository,
	narrativeAgent agent.NarrativeGenerator,
	scoringAgent agent.Scorer,
	feedbackAgent agent.FeedbackInterpreter,
	creditNoteAgent agent.CreditNoteGenerator,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
	agentTimeout time.Duration,
) IAssessmentService {
	return &assessmentService{
		sessionRepo:      sessionRepo,
		narrativeAgent:   narrativeAgent,
		scoringAgent:     scoringAgent,
		feedbackAgent:    feedbackAgent,
		creditNoteAgent:  creditNoteAgent,
		publisherService: publisherService,
		sysLogger:        sysLogger,
		locks:            lock.NewKeyedMutex(),
		agentTimeout:     agentTimeout,
	}
}

// InitAssessment creates a fresh session record, or fully resets the record
// when the id already exists. Always legal; nothing from a prior workflow
// under the same id survives.
func (s *assessmentService) InitAssessment(ctx context.Context, sessionId string, req *dto.InitAssessmentRequest) (*dto.InitAssessmentResponse, error) {
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	s.locks.Lock(sessionId)
	defer s.locks.Unlock(sessionId)

	session := store.NewSession(sessionId, req.Query, req.LoanDetails)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionInitialized(sessionId))
	s.sysLogger.Info("ASSESSMENT", "Session initialized", map[string]interface{}{"session_id": sessionId})

	return &dto.InitAssessmentResponse{SessionId: sessionId}, nil
}

// GenerateNarrative runs the narrative agent on the feedback-augmented query
// and the scoring agent on its output, then overwrites the stored narrative
// and score together.
func (s *assessmentService) GenerateNarrative(ctx context.Context, sessionId string) (*dto.GenerateNarrativeResponse, error) {
	s.locks.Lock(sessionId)
	defer s.locks.Unlock(sessionId)

	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Status == store.StatusCreditNoteReady {
		return nil, apperror.PreconditionFailed("narrative cannot be regenerated after a credit note was issued; re-initialize the session")
	}

	input := prompt.NewBuilder(session).NarrativeInput()

	callCtx, cancel := s.agentContext(ctx)
	defer cancel()

	narrative, err := s.narrativeAgent.GenerateNarrative(callCtx, input)
	if err != nil {
		return nil, s.generationError("narrative generation failed", err)
	}

	score, err := s.scoringAgent.Score(callCtx, narrative)
	if err != nil {
		return nil, s.generationError("risk scoring failed", err)
	}

	session.SetNarrative(narrative, score)
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}

	feedbackCount := len(session.NarrativeFeedback)
	s.publish(ctx, events.NewNarrativeGenerated(sessionId, score, feedbackCount))

	return &dto.GenerateNarrativeResponse{
		Narrative:     narrative,
		Score:         score,
		FeedbackCount: feedbackCount,
	}, nil
}

func (s *assessmentService) SubmitNarrativeFeedback(ctx context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	return s.submitFeedback(ctx, sessionId, req.Text, store.FeedbackKindNarrative)
}

func (s *assessmentService) SubmitCreditNoteFeedback(ctx context.Context, sessionId string, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	return s.submitFeedback(ctx, sessionId, req.Text, store.FeedbackKindCreditNote)
}

// submitFeedback interprets raw reviewer text and appends the structured
// record to the matching track. Legal as soon as the session exists, so
// feedback can seed the very first generation.
func (s *assessmentService) submitFeedback(ctx context.Context, sessionId, rawText string, kind store.FeedbackKind) (*dto.SubmitFeedbackResponse, error) {
	s.locks.Lock(sessionId)
	defer s.locks.Unlock(sessionId)

	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := s.agentContext(ctx)
	defer cancel()

	record, err := s.feedbackAgent.Interpret(callCtx, rawText, kind)
	if err != nil {
		return nil, apperror.FeedbackProcessing("feedback interpretation failed", err)
	}

	session.AppendFeedback(*record)
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}

	count := len(session.NarrativeFeedback)
	if kind == store.FeedbackKindCreditNote {
		count = len(session.CreditNoteFeedback)
	}
	s.publish(ctx, events.NewFeedbackReceived(sessionId, string(kind), count))

	return &dto.SubmitFeedbackResponse{FeedbackCount: count}, nil
}

// GenerateCreditNote drafts the final document from the current narrative
// and the credit-note feedback context. Requires a narrative; never touches
// the stored narrative or score, so repeated calls produce fresh documents
// over identical inputs.
func (s *assessmentService) GenerateCreditNote(ctx context.Context, sessionId string) (*dto.GenerateCreditNoteResponse, error) {
	s.locks.Lock(sessionId)
	defer s.locks.Unlock(sessionId)

	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !session.HasNarrative() {
		return nil, apperror.PreconditionFailed("credit note requires a generated narrative; call generate-narrative first")
	}

	queryContext := prompt.NewBuilder(session).CreditNoteContext()

	callCtx, cancel := s.agentContext(ctx)
	defer cancel()

	document, err := s.creditNoteAgent.GenerateCreditNote(callCtx, *session.CurrentNarrative, queryContext, session.LoanDetails)
	if err != nil {
		return nil, s.generationError("credit note generation failed", err)
	}

	session.Status = store.StatusCreditNoteReady
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, err
	}

	feedbackCount := len(session.CreditNoteFeedback)
	s.publish(ctx, events.NewCreditNoteGenerated(sessionId, feedbackCount))

	return &dto.GenerateCreditNoteResponse{
		CreditNote:    document,
		Query:         session.OriginalQuery,
		LoanDetails:   session.LoanDetails,
		FeedbackCount: feedbackCount,
	}, nil
}

func (s *assessmentService) loadSession(ctx context.Context, sessionId string) (*store.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionId)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, apperror.SessionNotFound(sessionId)
		}
		return nil, err
	}
	return session, nil
}

func (s *assessmentService) agentContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.agentTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.agentTimeout)
}

func (s *assessmentService) generationError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.GenerationTimeout(message, err)
	}
	return apperror.Generation(message, err)
}

func (s *assessmentService) publish(ctx context.Context, evt events.Event) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.PublishAssessmentEvent(ctx, evt); err != nil {
		s.sysLogger.Warn("ASSESSMENT", "Failed to publish audit event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
