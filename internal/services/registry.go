package services

import (
	"intake_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	CandidateService CandidateService
	QuestionService  QuestionService
	AdminService     AdminService
	EmailService     email.Provider
}
