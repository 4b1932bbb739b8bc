package validation

import (
	"testing"

	"drawnet/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("bob_42"))
	assert.NoError(t, ValidateUsername("carol.d-e"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("   "))
	assert.Error(t, ValidateUsername("has spaces"))
	assert.Error(t, ValidateUsername(string(make([]byte, 51))))
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("A1B2C3D4"))
	assert.NoError(t, ValidateSessionID("anything-goes-for-relay-joins"))

	assert.Error(t, ValidateSessionID(""))

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateSessionID(string(long)))
}

func validCommand() domain.DrawingCommand {
	return domain.DrawingCommand{
		X1: 0, Y1: 0, X2: 10, Y2: 10,
		Color: "#000",
		Size:  2,
		Tool:  domain.ToolPen,
	}
}

func TestValidateDrawingCommand(t *testing.T) {
	assert.NoError(t, ValidateDrawingCommand(validCommand()))

	eraser := validCommand()
	eraser.Tool = domain.ToolEraser
	eraser.Color = "#ffffff"
	assert.NoError(t, ValidateDrawingCommand(eraser))

	named := validCommand()
	named.Color = "red"
	assert.NoError(t, ValidateDrawingCommand(named))

	t.Run("missing color", func(t *testing.T) {
		cmd := validCommand()
		cmd.Color = ""
		assert.Error(t, ValidateDrawingCommand(cmd))
	})

	t.Run("bad color format", func(t *testing.T) {
		cmd := validCommand()
		cmd.Color = "#12"
		assert.Error(t, ValidateDrawingCommand(cmd))
	})

	t.Run("non-positive size", func(t *testing.T) {
		cmd := validCommand()
		cmd.Size = 0
		assert.Error(t, ValidateDrawingCommand(cmd))
	})

	t.Run("unknown tool", func(t *testing.T) {
		cmd := validCommand()
		cmd.Tool = "spraycan"
		assert.Error(t, ValidateDrawingCommand(cmd))
	})
}

func TestValidateCanvasState(t *testing.T) {
	assert.NoError(t, ValidateCanvasState(nil))
	assert.NoError(t, ValidateCanvasState([]domain.DrawingCommand{validCommand(), validCommand()}))

	bad := validCommand()
	bad.Size = -1
	err := ValidateCanvasState([]domain.DrawingCommand{validCommand(), bad})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "command 1")
}
