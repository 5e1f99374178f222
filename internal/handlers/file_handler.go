package handlers

import (
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/storage"
	"intake_backend/pkg/apperrors"
)

type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, storageInstance storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storageInstance,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/*path", h.ServeFile)
}

// ServeFile streams a stored candidate file (resume or video).
func (h *FileHandler) ServeFile(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || strings.Contains(path, "..") {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), path)
	if err != nil || !exists {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), path)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)

	if size, err := h.storage.GetSize(c.Request.Context(), path); err == nil {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
	}
	c.Header("Content-Disposition", "inline")

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers already sent, nothing to report to the client
		c.Error(err)
	}
}
