package repositories

import (
	"errors"

	"gorm.io/gorm"

	"intake_backend/internal/models"
)

// ErrCandidateNotFound возвращается, когда кандидат не найден по id или email.
var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	Create(db *gorm.DB, candidate *models.Candidate) error
	Update(db *gorm.DB, candidate *models.Candidate) error
	FindByID(db *gorm.DB, id string) (*models.Candidate, error)
	FindByEmail(db *gorm.DB, email string) (*models.Candidate, error)
	List(db *gorm.DB) ([]models.Candidate, error)
}

type candidateRepository struct{}

func NewCandidateRepository() CandidateRepository {
	return &candidateRepository{}
}

func (r *candidateRepository) Create(db *gorm.DB, candidate *models.Candidate) error {
	return db.Create(candidate).Error
}

func (r *candidateRepository) Update(db *gorm.DB, candidate *models.Candidate) error {
	return db.Save(candidate).Error
}

func (r *candidateRepository) FindByID(db *gorm.DB, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	result := db.Where("id = ?", id).First(&candidate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, result.Error
	}
	return &candidate, nil
}

// List возвращает всех кандидатов, новые сверху.
func (r *candidateRepository) List(db *gorm.DB) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := db.Order("created_at desc").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// FindByEmail ищет кандидата по email. Значение всегда уходит
// параметром запроса, никакой интерполяции в фильтр.
func (r *candidateRepository) FindByEmail(db *gorm.DB, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	result := db.Where("email = ?", email).First(&candidate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, result.Error
	}
	return &candidate, nil
}
