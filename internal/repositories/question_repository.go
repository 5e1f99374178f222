package repositories

import (
	"gorm.io/gorm"

	"intake_backend/internal/models"
)

type QuestionRepository interface {
	ListOrdered(db *gorm.DB) ([]models.Question, error)
	Create(db *gorm.DB, question *models.Question) error
	Count(db *gorm.DB) (int64, error)
}

type questionRepository struct{}

func NewQuestionRepository() QuestionRepository {
	return &questionRepository{}
}

// ListOrdered возвращает все вопросы, отсортированные по order_index.
func (r *questionRepository) ListOrdered(db *gorm.DB) ([]models.Question, error) {
	var questions []models.Question
	if err := db.Order("order_index asc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Create(db *gorm.DB, question *models.Question) error {
	return db.Create(question).Error
}

func (r *questionRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Question{}).Count(&count).Error
	return count, err
}
