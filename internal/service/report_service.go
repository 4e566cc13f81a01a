package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"report-assistant-be/internal/dto"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/internal/repository/memory"
	"report-assistant-be/pkg/events"
	"report-assistant-be/pkg/rag/session"
	"report-assistant-be/pkg/store"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("report session not found")

type IReportService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
	UploadReport(ctx context.Context, sessionId uuid.UUID, req *dto.UploadReportRequest) (*dto.UploadReportResponse, error)
	SendChat(ctx context.Context, sessionId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ResetConversation(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
}

// ReportEngine bundles the collaborators every new session is built with.
type ReportEngine struct {
	Ingestor   session.Ingestor
	Summarizer session.Summarizer
	Responder  session.Responder
}

type reportService struct {
	engine           ReportEngine
	sessionRepo      *memory.SessionRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewReportService(
	engine ReportEngine,
	sessionRepo *memory.SessionRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IReportService {
	return &reportService{
		engine:           engine,
		sessionRepo:      sessionRepo,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *reportService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := uuid.New()

	deps := session.Dependencies{
		Ingestor:   s.engine.Ingestor,
		Summarizer: s.engine.Summarizer,
		Responder:  s.engine.Responder,
		Logger:     s.logger,
	}
	if s.publisherService != nil {
		deps.Events = s.publisherService
	}

	sess := session.New(id.String(), deps)
	s.sessionRepo.Save(sess)
	s.publish(ctx, events.TypeSessionCreated, id)

	s.logger.Info("REPORT", "Session created", map[string]interface{}{"session_id": id.String()})

	return &dto.CreateSessionResponse{
		Id:    id,
		State: sess.State(),
	}, nil
}

func (s *reportService) GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	sess, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(sessionId, sess.Snapshot()), nil
}

func (s *reportService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	if _, err := s.find(sessionId); err != nil {
		return err
	}
	s.sessionRepo.Delete(sessionId.String())
	s.publish(ctx, events.TypeSessionDeleted, sessionId)
	return nil
}

func (s *reportService) UploadReport(ctx context.Context, sessionId uuid.UUID, req *dto.UploadReportRequest) (*dto.UploadReportResponse, error) {
	sess, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}

	loaded, err := sess.Upload(ctx, store.Document{
		Name:      req.Filename,
		Content:   req.Content,
		MediaType: req.MediaType,
	})
	if err != nil {
		s.logger.Error("REPORT", "Report upload failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"filename":   req.Filename,
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.UploadReportResponse{
		Loaded:  loaded,
		Session: toSessionResponse(sessionId, sess.Snapshot()),
	}, nil
}

func (s *reportService) SendChat(ctx context.Context, sessionId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sess, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}

	reply, err := sess.Ask(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		Reply:   reply,
		Session: toSessionResponse(sessionId, sess.Snapshot()),
	}, nil
}

func (s *reportService) ResetConversation(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	sess, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(ctx); err != nil {
		return nil, err
	}
	return toSessionResponse(sessionId, sess.Snapshot()), nil
}

func (s *reportService) find(sessionId uuid.UUID) (*session.Session, error) {
	sess, ok := s.sessionRepo.Get(sessionId.String())
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *reportService) publish(ctx context.Context, eventType string, sessionId uuid.UUID) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.Publish(ctx, events.NewSessionEvent(eventType, sessionId.String(), nil)); err != nil {
		s.logger.Warn("REPORT", "Failed to publish session event", map[string]interface{}{
			"session_id": sessionId.String(),
			"event":      eventType,
			"error":      err.Error(),
		})
	}
}

func toSessionResponse(id uuid.UUID, state store.SessionState) *dto.SessionResponse {
	history := make([]dto.TurnDTO, 0, len(state.History))
	for _, turn := range state.History {
		history = append(history, dto.TurnDTO{Role: turn.Role, Content: turn.Content})
	}
	return &dto.SessionResponse{
		Id:            id,
		State:         state.State,
		Filename:      state.Filename,
		DocumentChars: utf8.RuneCountInString(state.DocumentText),
		Summary:       state.Summary,
		History:       history,
		UpdatedAt:     state.UpdatedAt,
	}
}
