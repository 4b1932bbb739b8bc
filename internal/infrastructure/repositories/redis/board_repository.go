package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisBoardRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisBoardRepository(client *redis.Client) ports.BoardRepository {
	return &RedisBoardRepository{
		client: client,
		prefix: "drawnet:board:",
	}
}

func (r *RedisBoardRepository) boardKey(id domain.SessionID) string {
	return r.prefix + string(id)
}

func (r *RedisBoardRepository) Create(ctx context.Context, board *domain.Whiteboard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	// SETNX keeps a freshly generated id from clobbering an existing board.
	ok, err := r.client.SetNX(ctx, r.boardKey(board.SessionID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create board in Redis: %w", err)
	}
	if !ok {
		return domain.ErrSessionExists
	}

	return nil
}

func (r *RedisBoardRepository) GetByID(ctx context.Context, id domain.SessionID) (*domain.Whiteboard, error) {
	data, err := r.client.Get(ctx, r.boardKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board from Redis: %w", err)
	}

	var board domain.Whiteboard
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	if board.CanvasState == nil {
		board.CanvasState = []domain.DrawingCommand{}
	}

	return &board, nil
}

func (r *RedisBoardRepository) SaveCanvasState(ctx context.Context, id domain.SessionID, commands []domain.DrawingCommand) error {
	board, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	board.CanvasState = commands
	if board.CanvasState == nil {
		board.CanvasState = []domain.DrawingCommand{}
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	// XX so a save races with delete instead of resurrecting the board.
	if err := r.client.SetXX(ctx, r.boardKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save canvas state in Redis: %w", err)
	}

	return nil
}

func (r *RedisBoardRepository) Delete(ctx context.Context, id domain.SessionID) error {
	deleted, err := r.client.Del(ctx, r.boardKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete board from Redis: %w", err)
	}
	if deleted == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}
