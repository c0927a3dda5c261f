package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	database "linktree/internal/db"
	"linktree/internal/display"
	"linktree/internal/scheduler"
	"linktree/internal/storage"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The page is also embedded from other origins (bio links, overlays).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveController is the part of the scheduler the API drives.
type LiveController interface {
	Snapshot() scheduler.State
	CheckLiveStatus(ctx context.Context) bool
	RotateFallbackVideo() string
}

// StatusHandler exposes the current presentation and its history.
type StatusHandler struct {
	board *display.Board
	live  LiveController
	db    *database.Client
	store *storage.Client
}

// NewStatusHandler creates a StatusHandler; db and store may be nil.
func NewStatusHandler(board *display.Board, live LiveController, db *database.Client, store *storage.Client) *StatusHandler {
	return &StatusHandler{board: board, live: live, db: db, store: store}
}

// GetStatus returns what the page should show right now.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"display":   h.board.Current(),
		"scheduler": h.live.Snapshot(),
	})
}

// GetHistory lists the most recent presentation changes.
func (h *StatusHandler) GetHistory(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "History is disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	events, err := h.db.RecentEvents(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetStatusFile serves the last published status.json, the same document a
// static mirror of the page polls from the bucket.
func (h *StatusHandler) GetStatusFile(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Status publishing is disabled"})
		return
	}

	obj, err := h.store.DownloadStatusFile(display.StatusKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "status.json not published yet"})
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.ContentLength, obj.ContentType, obj.Body, map[string]string{
		"Cache-Control": display.StatusCacheControl,
	})
}

// Stream upgrades to a websocket and pushes every snapshot change.
func (h *StatusHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, updates, cancel := h.board.Subscribe()
	defer cancel()
	log.Printf("🔌 Viewer %s connected (%d watching)", id, h.board.Subscribers())

	// Reader: only needed to notice the viewer leaving and to keep pongs flowing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			log.Printf("🔌 Viewer %s left", id)
			return
		case snap := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
