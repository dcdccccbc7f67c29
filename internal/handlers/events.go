package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fotomuro/api/internal/apperr"
)

type createEventRequest struct {
	Name       string `json:"name"`
	PathPrefix string `json:"pathPrefix"`
}

func (h HandlerSet) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.events.Create(c.Request.Context(), req.Name, req.PathPrefix)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h HandlerSet) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	// The list barely changes; let CDNs and browsers hold it a while.
	c.Header("Cache-Control", "s-maxage=300, stale-while-revalidate=600")
	c.JSON(http.StatusOK, events)
}
