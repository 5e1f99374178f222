package models

import (
	"time"
)

// Candidate - запись соискателя. Email уникален: повторная подача
// с тем же адресом перезаписывает существующую запись только после
// явного подтверждения (флаг override в форме).
type Candidate struct {
	BaseModel
	Name   string `gorm:"not null" json:"name"`
	Email  string `gorm:"not null;uniqueIndex" json:"email"`
	Mobile string `gorm:"not null" json:"mobile"`

	// Пути в файловом хранилище (пустая строка = файла нет)
	ResumePath string `json:"resume,omitempty"`
	VideoPath  string `json:"video,omitempty"`

	// Извлеченный текст резюме (best-effort, может быть пустым)
	ResumeText string `gorm:"type:text" json:"-"`

	// Проставляется один раз при финальной отправке; запись никогда
	// не удаляется этим сервисом
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}
