package memory

import (
	"context"
	"sync"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"
)

type MemoryBoardRepository struct {
	boards map[domain.SessionID]*domain.Whiteboard
	mu     sync.RWMutex
}

func NewMemoryBoardRepository() ports.BoardRepository {
	return &MemoryBoardRepository{
		boards: make(map[domain.SessionID]*domain.Whiteboard),
	}
}

func (r *MemoryBoardRepository) Create(ctx context.Context, board *domain.Whiteboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[board.SessionID]; exists {
		return domain.ErrSessionExists
	}

	r.boards[board.SessionID] = copyBoard(board)
	return nil
}

func (r *MemoryBoardRepository) GetByID(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, exists := r.boards[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}

	return copyBoard(board), nil
}

func (r *MemoryBoardRepository) SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	board, exists := r.boards[id]
	if !exists {
		return domain.ErrSessionNotFound
	}

	state := make([]domain.DrawingCommand, len(commands))
	copy(state, commands)
	board.CanvasState = state
	return nil
}

func (r *MemoryBoardRepository) Delete(ctx context.Context, id domain.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[id]; !exists {
		return domain.ErrSessionNotFound
	}

	delete(r.boards, id)
	return nil
}

// copyBoard keeps callers from mutating stored state through shared slices.
func copyBoard(board *domain.Whiteboard) *domain.Whiteboard {
	state := make([]domain.DrawingCommand, len(board.CanvasState))
	copy(state, board.CanvasState)
	return &domain.Whiteboard{
		SessionID:       board.SessionID,
		CreatorUsername: board.CreatorUsername,
		CanvasState:     state,
	}
}
