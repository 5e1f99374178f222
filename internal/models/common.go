package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

// BeforeCreate генерирует uuid на стороне приложения,
// чтобы не зависеть от расширений БД (тесты ходят в sqlite)
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
