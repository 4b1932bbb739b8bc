package reliability

import (
	"context"
	"errors"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"
	"drawnet/pkg/circuitbreaker"
	"drawnet/pkg/retry"

	"go.uber.org/zap"
)

// BoardRepositoryWrapper adds retry and circuit breaking around a board
// repository. Not-found and already-exists outcomes are answers from the
// store, not failures: they are never retried and never trip the breaker.
type BoardRepositoryWrapper struct {
	repo   ports.BoardRepository
	logger *zap.SugaredLogger

	retryConfig    retry.Config
	circuitBreaker *circuitbreaker.CircuitBreaker
}

func NewBoardRepositoryWrapper(
	repo ports.BoardRepository,
	retryConfig retry.Config,
	cbConfig circuitbreaker.Config,
	logger *zap.SugaredLogger,
) *BoardRepositoryWrapper {
	retryConfig.PermanentErrors = append(retryConfig.PermanentErrors,
		domain.ErrSessionNotFound,
		domain.ErrSessionExists,
		circuitbreaker.ErrOpen,
	)

	w := &BoardRepositoryWrapper{
		repo:           repo,
		logger:         logger,
		retryConfig:    retryConfig,
		circuitBreaker: circuitbreaker.New(cbConfig),
	}

	w.circuitBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Infow("board store circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return w
}

func isStoreAnswer(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExists)
}

// execute runs fn through the breaker and retry policy. Domain answers pass
// through the breaker as successes so a burst of lookups for dead sessions
// cannot open it.
func (w *BoardRepositoryWrapper) execute(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, w.retryConfig, func() error {
		var answer error
		err := w.circuitBreaker.Execute(func() error {
			if innerErr := fn(); innerErr != nil {
				if isStoreAnswer(innerErr) {
					answer = innerErr
					return nil
				}
				return innerErr
			}
			return nil
		})
		if err != nil {
			return err
		}
		return answer
	})
}

func (w *BoardRepositoryWrapper) Create(ctx context.Context, board *domain.Whiteboard) error {
	return w.execute(ctx, func() error {
		return w.repo.Create(ctx, board)
	})
}

func (w *BoardRepositoryWrapper) GetByID(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error) {
	var board *domain.Whiteboard
	err := w.execute(ctx, func() error {
		var innerErr error
		board, innerErr = w.repo.GetByID(ctx, id)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (w *BoardRepositoryWrapper) SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error {
	return w.execute(ctx, func() error {
		return w.repo.SaveCanvasState(ctx, id, commands)
	})
}

func (w *BoardRepositoryWrapper) Delete(ctx context.Context, id domain.SessionID) error {
	return w.execute(ctx, func() error {
		return w.repo.Delete(ctx, id)
	})
}

// BreakerState exposes the breaker state for readiness reporting.
func (w *BoardRepositoryWrapper) BreakerState() circuitbreaker.State {
	return w.circuitBreaker.GetState()
}
