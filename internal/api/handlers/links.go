package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"linktree/internal/models"
)

var linkClicks = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "linktree_link_clicks_total", Help: "Outbound link redirects"},
	[]string{"platform"},
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(linkClicks)
}

// LinkHandler serves the outbound platform links.
type LinkHandler struct {
	links map[string]string
}

func NewLinkHandler(links map[string]string) *LinkHandler {
	normalized := make(map[string]string, len(links))
	for platform, url := range links {
		normalized[strings.ToLower(platform)] = url
	}
	return &LinkHandler{links: normalized}
}

// usable skips placeholders such as "#" (an unset PIX link).
func usable(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != "#"
}

// List returns the configured links sorted by platform name.
func (h *LinkHandler) List() []models.Link {
	out := make([]models.Link, 0, len(h.links))
	for platform, url := range h.links {
		if !usable(url) {
			continue
		}
		out = append(out, models.Link{Platform: platform, URL: url, Redirect: "/go/" + platform})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out
}

func (h *LinkHandler) GetLinks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"links": h.List()})
}

// Redirect sends the visitor to the platform and counts the click.
func (h *LinkHandler) Redirect(c *gin.Context) {
	platform := strings.ToLower(c.Param("platform"))
	url, ok := h.links[platform]
	if !ok || !usable(url) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown platform"})
		return
	}

	linkClicks.WithLabelValues(platform).Inc()
	c.Redirect(http.StatusFound, url)
}
