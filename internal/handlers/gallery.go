package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/middleware"
	"fotomuro/api/internal/models"
	"fotomuro/api/internal/repository"
)

// ListImages serves both the moderation panel and the public gallery.
// The approved listing is public; pending and rejected require a
// moderator session.
func (h HandlerSet) ListImages(c *gin.Context) {
	evento := c.Query("evento")
	state := c.Query("state")
	if state == "" {
		state = string(models.LifecycleApproved)
	}

	if models.Lifecycle(state) != models.LifecycleApproved {
		if _, err := h.access.Verify(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
			return
		}
	}

	refs, err := h.gallery.ListImages(c.Request.Context(), evento, state)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, refs)
}

type signedURLRequest struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
}

func (h HandlerSet) SignedURL(c *gin.Context) {
	var req signedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	url, err := h.gallery.SignedURL(c.Request.Context(), req.Folder, req.Filename)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h HandlerSet) ListLogs(c *gin.Context) {
	entries, err := h.gallery.Logs(c.Request.Context(), repository.LogFilter{
		Evento:    c.Query("evento"),
		Moderator: c.Query("moderator"),
		Action:    c.Query("action"),
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, entries)
}
