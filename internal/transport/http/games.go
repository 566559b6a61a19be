package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/domain"
	"go.uber.org/zap"
)

// GameService is what the HTTP layer needs from the session manager.
type GameService interface {
	Create(ctx context.Context, height, width int) (domain.Snapshot, error)
	Snapshot(ctx context.Context, gameID string) (domain.Snapshot, error)
	Move(gameID string, side *domain.Side, column int) (domain.Snapshot, error)
	Reset(gameID string) (domain.Snapshot, error)
	Remove(ctx context.Context, gameID string) error
	List() []domain.Snapshot
}

type GameHandler struct {
	Games         GameService
	DefaultHeight int
	DefaultWidth  int
	log           *zap.Logger
}

func NewGameHandler(games GameService, defaultHeight, defaultWidth int, log *zap.Logger) *GameHandler {
	return &GameHandler{
		Games:         games,
		DefaultHeight: defaultHeight,
		DefaultWidth:  defaultWidth,
		log:           log.With(zap.String("component", "http")),
	}
}

type createGameRequest struct {
	Height *int `json:"height"`
	Width  *int `json:"width"`
}

type moveRequest struct {
	Column *int   `json:"column"`
	Side   string `json:"side"`
}

// CreateGame starts a new game. Missing dimensions fall back to the
// configured defaults; an empty body is allowed.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	height, width := h.DefaultHeight, h.DefaultWidth
	if req.Height != nil {
		height = *req.Height
	}
	if req.Width != nil {
		width = *req.Width
	}

	snap, err := h.Games.Create(c.Request.Context(), height, width)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *GameHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": h.Games.List()})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snap, err := h.Games.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetBoard returns the plain-text rendering of the board.
func (h *GameHandler) GetBoard(c *gin.Context) {
	snap, err := h.Games.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, snap.Board)
}

// MakeMove drops a disc. Without "side" the side to move plays.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var side *domain.Side
	if req.Side != "" {
		s, err := domain.ParseSide(req.Side)
		if err != nil {
			h.fail(c, err)
			return
		}
		side = &s
	}

	snap, err := h.Games.Move(c.Param("id"), side, *req.Column)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	snap, err := h.Games.Reset(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.Games.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDimensions),
		errors.Is(err, domain.ErrOutOfBounds),
		errors.Is(err, domain.ErrInvalidSide),
		errors.Is(err, domain.ErrInvalidDisc):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrWrongTurn),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrDiscAlreadyPlaced):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
