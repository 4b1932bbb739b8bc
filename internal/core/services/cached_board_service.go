package services

import (
	"context"
	"fmt"
	"time"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"
	"drawnet/pkg/cache"
)

// CachedBoardService puts a short-TTL read cache in front of GetSession.
// Writes go straight through and invalidate the affected entry, so within
// one process a save is immediately visible to the next read.
type CachedBoardService struct {
	base  ports.BoardService
	cache *cache.Cache[*domain.Whiteboard]
}

func NewCachedBoardService(base ports.BoardService, ttl time.Duration) *CachedBoardService {
	return &CachedBoardService{
		base:  base,
		cache: cache.New[*domain.Whiteboard](ttl),
	}
}

func boardCacheKey(id domain.SessionID) string {
	return fmt.Sprintf("board:%s", id)
}

func (s *CachedBoardService) CreateSession(ctx context.Context, creatorUsername string) (*domain.Whiteboard, error) {
	board, err := s.base.CreateSession(ctx, creatorUsername)
	if err != nil {
		return nil, err
	}

	s.cache.Set(boardCacheKey(board.SessionID), board)
	return board, nil
}

func (s *CachedBoardService) GetSession(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error) {
	return s.cache.GetOrSet(ctx, boardCacheKey(id), func(ctx context.Context) (*domain.Whiteboard, error) {
		return s.base.GetSession(ctx, id)
	})
}

func (s *CachedBoardService) SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error {
	if err := s.base.SaveCanvasState(ctx, id, commands); err != nil {
		return err
	}

	s.cache.Delete(boardCacheKey(id))
	return nil
}

// Stop terminates the cache sweeper.
func (s *CachedBoardService) Stop() {
	s.cache.Stop()
}
