package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/config"
	"intake_backend/internal/services"
	"intake_backend/internal/validator"
	"intake_backend/pkg/apperrors"
)

type CandidateHandler struct {
	*BaseHandler
	candidateService services.CandidateService
	cfg              *config.Config
}

func NewCandidateHandler(base *BaseHandler, candidateService services.CandidateService, cfg *config.Config) *CandidateHandler {
	return &CandidateHandler{
		BaseHandler:      base,
		candidateService: candidateService,
		cfg:              cfg,
	}
}

func (h *CandidateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/candidate", h.Lookup)
	r.POST("/submit-info", h.SubmitInfo)
	r.POST("/final-submit", h.FinalSubmit)
}

// Lookup godoc
// Возвращает кандидата по id ИЛИ email (ровно один из параметров).
func (h *CandidateHandler) Lookup(c *gin.Context) {
	id := c.Query("id")
	email := c.Query("email")

	candidate, err := h.candidateService.Lookup(c.Request.Context(), h.GetDB(c), id, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// SubmitInfo godoc
// Первый шаг формы: имя, email, мобильный и файл резюме (multipart).
// Повторная подача с тем же email без флага override возвращает 409
// с existingCandidate=true; клиент показывает подтверждение и
// повторяет запрос с override=true.
func (h *CandidateHandler) SubmitInfo(c *gin.Context) {
	var input services.BasicInfoInput
	if !h.BindAndValidate(c, &input) {
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Resume file is required"))
		return
	}

	if err := validator.CheckResumeFile(fh, h.cfg.Upload.AllowedResumeTypes, h.cfg.Upload.MaxResumeSize); err != nil {
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

	resumeUpload := &services.ResumeUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}

	candidate, err := h.candidateService.SubmitBasicInfo(c.Request.Context(), h.GetDB(c), input, resumeUpload)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCandidateExists) {
			// Клиент различает конфликт по флагу, не по тексту сообщения
			c.JSON(http.StatusConflict, gin.H{
				"error":             apperrors.ErrCandidateExists,
				"existingCandidate": true,
			})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// FinalSubmit godoc
// Финальная отправка заявки. Требует подтверждения кандидата
// (acknowledged=true) и ранее прикрепленного видео.
func (h *CandidateHandler) FinalSubmit(c *gin.Context) {
	var input services.FinalSubmitInput
	if !h.BindAndValidate(c, &input) {
		return
	}

	if !input.Acknowledged {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Please confirm your details before submitting"))
		return
	}

	candidate, err := h.candidateService.Finalize(c.Request.Context(), h.GetDB(c), input.CandidateID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "candidate": candidate})
}
