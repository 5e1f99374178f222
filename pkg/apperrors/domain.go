package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок
интейк-портала (кандидаты, файлы, конвертация, админ-сессия).
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConversionFailed - конвертация видео не удалась (500).
// Не фатально для пользователя: контроллер отправки обязан
// откатиться на оригинальные байты.
func ErrConversionFailed(err error) *AppError {
	return Wrap(err, CodeConversionFailed, "transcode", "Video conversion failed", http.StatusInternalServerError)
}

// ErrDatabase - фабрика для ошибок хранилища данных (500)
func ErrDatabase(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "storage", "Data store operation failed", http.StatusInternalServerError)
}

// ErrCandidateExists - кандидат с таким email уже подавал заявку.
// Клиент обязан получить явное подтверждение перезаписи (флаг override)
// и повторить запрос; без флага запись не трогаем.
var ErrCandidateExists = New(
	CodeConflict,
	"candidate",
	"You have previously filled this form. Submitting again will override your previous application.",
	http.StatusConflict,
)

// ErrResumeFileType - тип файла резюме не разрешен (PDF/DOC/DOCX).
var ErrResumeFileType = New(
	CodeValidationFailed,
	"validation",
	"Please upload a PDF or DOCX file",
	http.StatusUnsupportedMediaType, // 415
)

// ErrVideoFileType - загружаемое видео должно быть MP4.
var ErrVideoFileType = New(
	CodeValidationFailed,
	"validation",
	"Please upload an MP4 file only",
	http.StatusUnsupportedMediaType, // 415
)

// ErrFileTooLarge - файл превышает максимальный размер.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size must be less than 5MB",
	http.StatusRequestEntityTooLarge, // 413
)

// ErrEmptyVideo - пустой (нулевой длины) видеоклип не принимается.
var ErrEmptyVideo = New(
	CodeValidationFailed,
	"validation",
	"Recorded clip is empty, please record or upload a video first",
	http.StatusBadRequest,
)

// ErrVideoMissing - у кандидата нет видео, финальная отправка невозможна.
var ErrVideoMissing = New(
	CodeInvalidOperation,
	"candidate",
	"A video response is required before final submission",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль админа.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized, // 401
)

// ErrInvalidToken - неверный или просроченный токен админ-сессии.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized, // 401
)
