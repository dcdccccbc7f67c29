package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/middleware"
	"fotomuro/api/internal/models"
)

type moderationRequest struct {
	Filename string `json:"filename"`
	Evento   string `json:"evento"`
	From     string `json:"from"`
}

func (h HandlerSet) Approve(c *gin.Context) {
	h.runTransition(c, func(req moderationRequest, moderator string) error {
		return h.moderation.Approve(c.Request.Context(), moderator, req.Filename, req.Evento)
	})
}

func (h HandlerSet) Reject(c *gin.Context) {
	h.runTransition(c, func(req moderationRequest, moderator string) error {
		return h.moderation.Reject(c.Request.Context(), moderator, req.Filename, req.Evento)
	})
}

// MoveToApproved is the generalized transition used to un-reject.
func (h HandlerSet) MoveToApproved(c *gin.Context) {
	h.runTransition(c, func(req moderationRequest, moderator string) error {
		from := models.Lifecycle(req.From)
		if req.From == "" {
			from = models.LifecycleRejected
		}
		return h.moderation.Move(c.Request.Context(), moderator, req.Filename, req.Evento, from, models.LifecycleApproved)
	})
}

// MoveToRejected is the generalized transition used to un-approve.
func (h HandlerSet) MoveToRejected(c *gin.Context) {
	h.runTransition(c, func(req moderationRequest, moderator string) error {
		from := models.Lifecycle(req.From)
		if req.From == "" {
			from = models.LifecycleApproved
		}
		return h.moderation.Move(c.Request.Context(), moderator, req.Filename, req.Evento, from, models.LifecycleRejected)
	})
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	h.runTransition(c, func(req moderationRequest, moderator string) error {
		return h.moderation.Delete(c.Request.Context(), moderator, req.Filename, req.Evento, req.From)
	})
}

func (h HandlerSet) runTransition(c *gin.Context, op func(req moderationRequest, moderator string) error) {
	moderator := c.GetString(middleware.ModeratorKey)

	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := op(req, moderator); err != nil {
		h.log.Warn().
			Err(err).
			Str("filename", req.Filename).
			Str("evento", req.Evento).
			Str("moderator", moderator).
			Msg("moderation action failed")
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
