package http

import (
	stderrors "errors"
	"net/http"

	"drawnet/internal/core/domain"
	"drawnet/internal/core/ports"
	"drawnet/internal/infrastructure/middleware"
	"drawnet/pkg/errors"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardService ports.BoardService
}

func NewBoardHandler(boardService ports.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// SetupRoutes registers the session store endpoints on an authenticated group.
func (h *BoardHandler) SetupRoutes(api *gin.RouterGroup) {
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/save", h.SaveCanvasState)
}

func (h *BoardHandler) CreateSession(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	if username == "" {
		c.Error(errors.NewUnauthorizedError("missing authenticated username"))
		return
	}

	board, err := h.boardService.CreateSession(c.Request.Context(), username)
	if err != nil {
		c.Error(errors.NewInternalError("failed to create session").WithCause(err))
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) GetSession(c *gin.Context) {
	sessionID := domain.SessionID(c.Param("id"))

	board, err := h.boardService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		// Ids that cannot name a stored board read as unknown sessions.
		if stderrors.Is(err, domain.ErrSessionNotFound) || stderrors.Is(err, domain.ErrInvalidSessionID) {
			c.Error(errors.NewNotFoundError("session"))
			return
		}
		c.Error(errors.NewInternalError("failed to load session").WithCause(err))
		return
	}

	c.JSON(http.StatusOK, board)
}

// SaveCanvasState replaces the stored command history wholesale. The body is
// a bare JSON array of drawing commands; an empty array is a valid save that
// clears the board.
func (h *BoardHandler) SaveCanvasState(c *gin.Context) {
	sessionID := domain.SessionID(c.Param("id"))

	var commands []domain.DrawingCommand
	if err := c.BindJSON(&commands); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}
	if commands == nil {
		commands = []domain.DrawingCommand{}
	}

	err := h.boardService.SaveCanvasState(c.Request.Context(), sessionID, commands)
	if err != nil {
		switch {
		case stderrors.Is(err, domain.ErrSessionNotFound), stderrors.Is(err, domain.ErrInvalidSessionID):
			c.Error(errors.NewNotFoundError("session"))
		case stderrors.Is(err, domain.ErrInvalidCommand):
			c.Error(errors.NewInvalidInputError(err.Error()))
		default:
			c.Error(errors.NewInternalError("failed to save canvas state").WithCause(err))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
