package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"
	"drawnet/internal/infrastructure/monitoring"
	"drawnet/pkg/tracing"
	"drawnet/pkg/utils"
	"drawnet/pkg/validation"

	"go.uber.org/zap"
)

// sessionIDAttempts bounds retries when a freshly generated session
// identifier collides with an existing one.
const sessionIDAttempts = 5

type boardService struct {
	repo    ports.BoardRepository
	metrics *monitoring.Collector
	logger  *zap.SugaredLogger
}

func NewBoardService(repo ports.BoardRepository, metrics *monitoring.Collector, logger *zap.SugaredLogger) ports.BoardService {
	return &boardService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateSession allocates a fresh session identifier, persists an empty board
// under it and returns the record. The caller becomes the session's creator.
func (s *boardService) CreateSession(ctx context.Context, creatorUsername string) (*domain.Whiteboard, error) {
	ctx, span := tracing.StartSpan(ctx, "board.create_session")
	defer span.End()

	if err := validation.ValidateUsername(creatorUsername); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < sessionIDAttempts; attempt++ {
		board := &domain.Whiteboard{
			SessionID:       domain.SessionID(utils.NewSessionID()),
			CreatorUsername: creatorUsername,
			CanvasState:     []domain.DrawingCommand{},
		}

		start := time.Now()
		err := s.repo.Create(ctx, board)
		s.metrics.ObserveStoreOperation("create", time.Since(start))
		if err != nil {
			if errors.Is(err, domain.ErrSessionExists) {
				lastErr = err
				continue
			}
			tracing.RecordError(ctx, err)
			return nil, err
		}

		s.metrics.BoardCreated()
		s.logger.Infow("session created",
			"session_id", board.SessionID,
			"creator", creatorUsername,
		)
		return board, nil
	}

	return nil, fmt.Errorf("failed to allocate session id: %w", lastErr)
}

func (s *boardService) GetSession(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error) {
	ctx, span := tracing.TraceStoreOperation(ctx, "get", string(id))
	defer span.End()

	if err := validation.ValidateSessionID(string(id)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSessionID, err)
	}

	start := time.Now()
	board, err := s.repo.GetByID(ctx, id)
	s.metrics.ObserveStoreOperation("get", time.Since(start))
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	return board, nil
}

// SaveCanvasState validates every command and then replaces the stored canvas
// wholesale. An empty sequence is a valid save that clears the board.
func (s *boardService) SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error {
	ctx, span := tracing.TraceStoreOperation(ctx, "save", string(id))
	defer span.End()

	if err := validation.ValidateSessionID(string(id)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSessionID, err)
	}
	if err := validation.ValidateCanvasState(commands); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCommand, err)
	}

	start := time.Now()
	err := s.repo.SaveCanvasState(ctx, id, commands)
	s.metrics.ObserveStoreOperation("save", time.Since(start))
	if err != nil {
		tracing.RecordError(ctx, err)
		return err
	}

	s.metrics.CanvasSaved()
	s.logger.Debugw("canvas state saved",
		"session_id", id,
		"commands", len(commands),
	)
	return nil
}
