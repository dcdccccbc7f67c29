package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/media/sniffer"
	"fotomuro/api/internal/service"
)

// Upload accepts the multipart submission from the public upload form.
// Success is a plain-text confirmation telling the visitor the image
// awaits moderation, matching what the form displays verbatim.
func (h HandlerSet) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file received"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Upload.MaxBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	_, err = h.upload.Submit(c.Request.Context(), service.SubmitInput{
		EventID:      c.PostForm("event"),
		Data:         data,
		DeclaredMIME: sniffer.MimeTypeFromHTTP(http.Header(header.Header)),
		Description:  c.PostForm("description"),
	})
	if err != nil {
		h.log.Warn().Err(err).Str("event", c.PostForm("event")).Msg("upload rejected")
		c.JSON(uploadStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.String(http.StatusOK, "Image uploaded successfully... awaiting moderator approval")
}

// uploadStatus refines the default mapping: an unsupported format is
// 415 and an oversized file 413 rather than generic 400s.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return apperr.HTTPStatus(err)
	}
}
