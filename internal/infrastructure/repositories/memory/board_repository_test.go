package memory

import (
	"context"
	"testing"

	"drawnet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(id domain.SessionID) *domain.Whiteboard {
	return &domain.Whiteboard{
		SessionID:       id,
		CreatorUsername: "alice",
		CanvasState:     []domain.DrawingCommand{},
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))

	board, err := repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("AB12CD34"), board.SessionID)
	assert.Equal(t, "alice", board.CreatorUsername)
	assert.Empty(t, board.CanvasState)
}

func TestCreateDuplicate(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))
	err := repo.Create(ctx, newBoard("AB12CD34"))
	assert.ErrorIs(t, err, domain.ErrSessionExists)
}

func TestGetMissing(t *testing.T) {
	repo := NewMemoryBoardRepository()

	_, err := repo.GetByID(context.Background(), "NOPE0000")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSaveCanvasStateReplacesWholesale(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))

	first := []domain.DrawingCommand{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Color: "#000000", Size: 3, Tool: domain.ToolPen},
		{X1: 10, Y1: 10, X2: 20, Y2: 5, Color: "red", Size: 5, Tool: domain.ToolPen},
	}
	require.NoError(t, repo.SaveCanvasState(ctx, "AB12CD34", first))

	board, err := repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	assert.Len(t, board.CanvasState, 2)

	// A later save with fewer commands replaces, not appends.
	second := []domain.DrawingCommand{
		{X1: 1, Y1: 1, X2: 2, Y2: 2, Color: "#fff", Size: 10, Tool: domain.ToolEraser},
	}
	require.NoError(t, repo.SaveCanvasState(ctx, "AB12CD34", second))

	board, err = repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	require.Len(t, board.CanvasState, 1)
	assert.Equal(t, domain.ToolEraser, board.CanvasState[0].Tool)
}

func TestSaveEmptyStateClearsBoard(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))

	cmds := []domain.DrawingCommand{
		{X1: 0, Y1: 0, X2: 1, Y2: 1, Color: "blue", Size: 2, Tool: domain.ToolPen},
	}
	require.NoError(t, repo.SaveCanvasState(ctx, "AB12CD34", cmds))
	require.NoError(t, repo.SaveCanvasState(ctx, "AB12CD34", []domain.DrawingCommand{}))

	board, err := repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	assert.Empty(t, board.CanvasState)
}

func TestSaveMissingSession(t *testing.T) {
	repo := NewMemoryBoardRepository()

	err := repo.SaveCanvasState(context.Background(), "NOPE0000", nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))

	require.NoError(t, repo.Delete(ctx, "AB12CD34"))
	_, err := repo.GetByID(ctx, "AB12CD34")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "AB12CD34"), domain.ErrSessionNotFound)
}

func TestReturnedBoardIsACopy(t *testing.T) {
	repo := NewMemoryBoardRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newBoard("AB12CD34")))

	cmds := []domain.DrawingCommand{
		{X1: 0, Y1: 0, X2: 1, Y2: 1, Color: "blue", Size: 2, Tool: domain.ToolPen},
	}
	require.NoError(t, repo.SaveCanvasState(ctx, "AB12CD34", cmds))

	board, err := repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	board.CanvasState[0].Color = "mutated"

	fresh, err := repo.GetByID(ctx, "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "blue", fresh.CanvasState[0].Color)
}
