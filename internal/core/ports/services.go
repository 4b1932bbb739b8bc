package ports

import (
	"context"

	"drawnet/internal/core/domain"
)

type BoardService interface {
	CreateSession(ctx context.Context, creatorUsername string) (*domain.Whiteboard, error)
	GetSession(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error)
	SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error
}
