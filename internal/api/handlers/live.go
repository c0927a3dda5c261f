package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ManualSwitch is the manual live-status provider.
type ManualSwitch interface {
	Set(live bool)
}

// LiveHandler lets the streamer steer the page without waiting for the
// next scheduled check.
type LiveHandler struct {
	live   LiveController
	manual ManualSwitch
}

// NewLiveHandler creates a LiveHandler; manual is nil unless the "manual"
// provider is configured.
func NewLiveHandler(live LiveController, manual ManualSwitch) *LiveHandler {
	return &LiveHandler{live: live, manual: manual}
}

// SetLive flips the manual provider and applies it right away.
func (h *LiveHandler) SetLive(c *gin.Context) {
	if h.manual == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Manual provider is not enabled (live.provider)"})
		return
	}

	var input struct {
		Live *bool `json:"live" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.manual.Set(*input.Live)
	log.Printf("🎛️ Manual live switch set to %v by %v", *input.Live, c.GetString("user_id"))

	h.live.CheckLiveStatus(c.Request.Context())
	c.JSON(http.StatusOK, h.live.Snapshot())
}

// Check runs a live check now.
func (h *LiveHandler) Check(c *gin.Context) {
	h.live.CheckLiveStatus(c.Request.Context())
	c.JSON(http.StatusOK, h.live.Snapshot())
}

// Rotate skips to the next highlight clip.
func (h *LiveHandler) Rotate(c *gin.Context) {
	source := h.live.RotateFallbackVideo()
	if source == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No highlight clips configured"})
		return
	}
	c.JSON(http.StatusOK, h.live.Snapshot())
}
