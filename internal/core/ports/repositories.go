package ports

import (
	"context"

	"drawnet/internal/core/domain"
)

// BoardRepository is the durable store contract for whiteboard sessions.
// SaveCanvasState replaces the stored command sequence wholesale.
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Whiteboard) error
	GetByID(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error)
	SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error
	Delete(ctx context.Context, id domain.SessionID) error
}
