package services

// BasicInfoInput - данные первого шага формы (multipart-поля).
// Override приходит как "true", когда кандидат подтвердил перезапись
// существующей заявки.
type BasicInfoInput struct {
	Name     string `form:"name" json:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Mobile   string `form:"mobile" json:"mobile" validate:"required,mobile"`
	Override bool   `form:"override" json:"override"`
}

// ResumeUpload - прочитанный файл резюме, уже прошедший файловые гейты.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// VideoUpload - видеофайл кандидата. Записанные клипы приходят сюда
// уже как MP4 (после серверной конвертации либо как fallback-оригинал
// с MP4-меткой).
type VideoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoginInput - учетные данные админа.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FinalSubmitInput - финальная отправка: кандидат подтвердил
// просмотр своих данных.
type FinalSubmitInput struct {
	CandidateID  string `json:"candidateId" validate:"required"`
	Acknowledged bool   `json:"acknowledged"`
}
