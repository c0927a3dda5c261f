package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linktree/internal/display"
)

// PageHandler renders the landing page.
type PageHandler struct {
	streamer string
	links    *LinkHandler
	board    *display.Board
}

func NewPageHandler(streamer string, links *LinkHandler, board *display.Board) *PageHandler {
	return &PageHandler{streamer: streamer, links: links, board: board}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Streamer": h.streamer,
		"Links":    h.links.List(),
		"Status":   h.board.Current(),
	})
}
