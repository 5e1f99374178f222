package services

import (
	"context"

	"gorm.io/gorm"

	"intake_backend/internal/config"
	"intake_backend/internal/models"
	"intake_backend/internal/repositories"
	"intake_backend/pkg/apperrors"
)

// QuestionService отдает список вопросов интервью по порядку.
// Если таблица вопросов пуста, возвращается единственный вопрос
// по умолчанию из конфигурации - форма всегда имеет хотя бы один шаг
// с видео.
type QuestionService interface {
	Questions(ctx context.Context, db *gorm.DB) ([]models.Question, error)
}

type questionService struct {
	questionRepo repositories.QuestionRepository
	cfg          *config.Config
}

func NewQuestionService(questionRepo repositories.QuestionRepository, cfg *config.Config) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		cfg:          cfg,
	}
}

func (s *questionService) Questions(ctx context.Context, db *gorm.DB) ([]models.Question, error) {
	count, err := s.questionRepo.Count(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	if count == 0 {
		return []models.Question{
			{
				BaseModel: models.BaseModel{ID: "default"},
				Text:      s.cfg.Intake.QuestionText,
				Order:     1,
			},
		}, nil
	}

	questions, err := s.questionRepo.ListOrdered(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return questions, nil
}
