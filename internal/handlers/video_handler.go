package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/config"
	"intake_backend/internal/services"
	"intake_backend/internal/transcode"
	"intake_backend/internal/validator"
	"intake_backend/pkg/apperrors"
)

type VideoHandler struct {
	*BaseHandler
	candidateService services.CandidateService
	transcoder       *transcode.Transcoder
	cfg              *config.Config
}

func NewVideoHandler(base *BaseHandler, candidateService services.CandidateService, transcoder *transcode.Transcoder, cfg *config.Config) *VideoHandler {
	return &VideoHandler{
		BaseHandler:      base,
		candidateService: candidateService,
		transcoder:       transcoder,
		cfg:              cfg,
	}
}

func (h *VideoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload-video", h.UploadVideo)
	r.POST("/convert-video", h.ConvertVideo)
}

// UploadVideo godoc
// Прикрепляет видео к записи кандидата. Принимает только MP4:
// записанные в браузере клипы проходят сначала через /convert-video
// и приходят сюда уже с MP4-меткой.
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	candidateID := c.PostForm("candidateId")
	if candidateID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing required field: candidateId"))
		return
	}

	fh, err := c.FormFile("video")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrVideoMissing)
		return
	}

	if err := validator.CheckVideoFile(fh, h.cfg.Upload.AllowedVideoTypes, h.cfg.Upload.MaxVideoSize); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	video := &services.VideoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}

	url, err := h.candidateService.AttachVideo(c.Request.Context(), h.GetDB(c), candidateID, video)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videoUrl": url})
}

// ConvertVideo godoc
// Конвертирует записанный клип (webm и т.п.) в MP4 и возвращает
// готовые байты в теле ответа. При ошибке конвертации клиент обязан
// откатиться на оригинальные байты клипа.
func (h *VideoHandler) ConvertVideo(c *gin.Context) {
	fh, err := c.FormFile("video")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing required file: video"))
		return
	}

	if fh.Size == 0 {
		apperrors.HandleError(c, apperrors.ErrEmptyVideo)
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	converted, err := h.transcoder.Convert(c.Request.Context(), data, filepath.Ext(fh.Filename))
	if err != nil {
		h.HandleServiceError(c, apperrors.ErrConversionFailed(err))
		return
	}

	c.Data(http.StatusOK, transcode.MP4ContentType, converted)
}
