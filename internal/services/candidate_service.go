package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"intake_backend/internal/email"
	"intake_backend/internal/logger"
	"intake_backend/internal/models"
	"intake_backend/internal/repositories"
	"intake_backend/internal/resume"
	"intake_backend/internal/storage"
	"intake_backend/pkg/apperrors"
)

// CandidateService - бизнес-логика заявки кандидата: базовая анкета,
// прикрепление видео, финальная отправка.
type CandidateService interface {
	// SubmitBasicInfo создает запись кандидата или, при совпадении
	// email, возвращает ErrCandidateExists пока клиент не подтвердит
	// перезапись флагом Override.
	SubmitBasicInfo(ctx context.Context, db *gorm.DB, input BasicInfoInput, resumeFile *ResumeUpload) (*models.Candidate, error)

	// AttachVideo сохраняет видео кандидата и возвращает его публичный URL.
	AttachVideo(ctx context.Context, db *gorm.DB, candidateID string, video *VideoUpload) (string, error)

	// Finalize помечает заявку отправленной. Требует прикрепленного видео.
	Finalize(ctx context.Context, db *gorm.DB, candidateID string) (*models.Candidate, error)

	// Lookup возвращает кандидата по id или email (ровно один параметр).
	Lookup(ctx context.Context, db *gorm.DB, id, email string) (*models.Candidate, error)

	// List возвращает всех кандидатов для админ-портала.
	List(ctx context.Context, db *gorm.DB) ([]models.Candidate, error)
}

type candidateService struct {
	candidateRepo repositories.CandidateRepository
	storage       storage.Storage
	extractor     *resume.Extractor
	emailService  email.Provider
}

func NewCandidateService(
	candidateRepo repositories.CandidateRepository,
	storageInstance storage.Storage,
	extractor *resume.Extractor,
	emailService email.Provider,
) CandidateService {
	return &candidateService{
		candidateRepo: candidateRepo,
		storage:       storageInstance,
		extractor:     extractor,
		emailService:  emailService,
	}
}

func (s *candidateService) SubmitBasicInfo(ctx context.Context, db *gorm.DB, input BasicInfoInput, resumeFile *ResumeUpload) (*models.Candidate, error) {
	existing, err := s.candidateRepo.FindByEmail(db, input.Email)
	if err != nil && !apperrors.Is(err, repositories.ErrCandidateNotFound) {
		return nil, apperrors.ErrDatabase(err)
	}

	var candidate *models.Candidate
	if existing != nil {
		// Повторная подача: без явного подтверждения запись не трогаем
		if !input.Override {
			return nil, apperrors.ErrCandidateExists
		}
		logger.CtxInfo(ctx, "overriding existing application", "candidate_id", existing.ID, "email", input.Email)
		existing.Name = input.Name
		existing.Mobile = input.Mobile
		// Перезапись возвращает заявку на первый шаг
		existing.SubmittedAt = nil
		candidate = existing
	} else {
		candidate = &models.Candidate{
			Name:   input.Name,
			Email:  input.Email,
			Mobile: input.Mobile,
		}
		if err := s.candidateRepo.Create(db, candidate); err != nil {
			return nil, apperrors.ErrDatabase(err)
		}
	}

	if resumeFile != nil {
		path := fmt.Sprintf("candidates/%s/resume_%d%s", candidate.ID, time.Now().UnixNano(), filepath.Ext(resumeFile.Filename))
		if err := s.storage.Save(ctx, path, bytes.NewReader(resumeFile.Data), resumeFile.ContentType); err != nil {
			return nil, apperrors.ErrDatabase(err)
		}
		candidate.ResumePath = path
		candidate.ResumeText = s.extractor.ExtractText(ctx, resumeFile.Data, resumeFile.ContentType)
	}

	if err := s.candidateRepo.Update(db, candidate); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "basic info submitted", "candidate_id", candidate.ID, "has_resume", resumeFile != nil)
	return candidate, nil
}

func (s *candidateService) AttachVideo(ctx context.Context, db *gorm.DB, candidateID string, video *VideoUpload) (string, error) {
	if len(video.Data) == 0 {
		return "", apperrors.ErrEmptyVideo
	}

	candidate, err := s.candidateRepo.FindByID(db, candidateID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCandidateNotFound) {
			return "", apperrors.ErrNotFound(err)
		}
		return "", apperrors.ErrDatabase(err)
	}

	ext := filepath.Ext(video.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	path := fmt.Sprintf("candidates/%s/video_%d%s", candidate.ID, time.Now().UnixNano(), ext)
	if err := s.storage.Save(ctx, path, bytes.NewReader(video.Data), video.ContentType); err != nil {
		return "", apperrors.ErrDatabase(err)
	}

	// Старое видео не удаляем сразу: запись могла не сохраниться.
	oldPath := candidate.VideoPath
	candidate.VideoPath = path
	if err := s.candidateRepo.Update(db, candidate); err != nil {
		return "", apperrors.ErrDatabase(err)
	}

	if oldPath != "" && oldPath != path {
		if err := s.storage.Delete(ctx, oldPath); err != nil {
			logger.CtxWarn(ctx, "failed to delete replaced video", "path", oldPath, "error", err.Error())
		}
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "video attached", "candidate_id", candidate.ID, "size_bytes", len(video.Data))
	return url, nil
}

func (s *candidateService) Finalize(ctx context.Context, db *gorm.DB, candidateID string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(db, candidateID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabase(err)
	}

	if candidate.VideoPath == "" {
		return nil, apperrors.ErrVideoMissing
	}

	now := time.Now()
	candidate.SubmittedAt = &now
	if err := s.candidateRepo.Update(db, candidate); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	s.sendConfirmation(ctx, candidate)

	logger.CtxInfo(ctx, "✅ application submitted", "candidate_id", candidate.ID)
	return candidate, nil
}

// sendConfirmation отправляет письмо-подтверждение. Ошибки отправки
// логируются, но заявку не откатывают.
func (s *candidateService) sendConfirmation(ctx context.Context, candidate *models.Candidate) {
	msg := &email.Email{
		To:      candidate.Email,
		Subject: "Application received",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe have received your application and video response. "+
				"Our team will review it and get back to you.\n\nThank you!",
			candidate.Name,
		),
	}
	if err := s.emailService.Send(msg); err != nil {
		logger.CtxWarn(ctx, "confirmation email failed", "candidate_id", candidate.ID, "error", err.Error())
	}
}

func (s *candidateService) Lookup(ctx context.Context, db *gorm.DB, id, email string) (*models.Candidate, error) {
	if (id == "") == (email == "") {
		return nil, apperrors.NewBadRequestError("Provide exactly one of 'id' or 'email'")
	}

	var candidate *models.Candidate
	var err error
	if id != "" {
		candidate, err = s.candidateRepo.FindByID(db, id)
	} else {
		candidate, err = s.candidateRepo.FindByEmail(db, email)
	}
	if err != nil {
		if apperrors.Is(err, repositories.ErrCandidateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return candidate, nil
}

func (s *candidateService) List(ctx context.Context, db *gorm.DB) ([]models.Candidate, error) {
	candidates, err := s.candidateRepo.List(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return candidates, nil
}
