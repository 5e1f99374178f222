package validator

import (
	"log"
	"mime/multipart"
	"unicode"

	"github.com/go-playground/validator/v10"

	"intake_backend/pkg/apperrors"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка времени запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'mobile': ровно 10 цифр, только цифры
	mustRegister("mobile", validateMobile)
}

func validateMobile(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые обрабатывает 'required'
	}
	if len(value) != 10 {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// --- Файловые гейты ---
// Клиент проверяет то же самое до запроса; серверная проверка — истина
// в последней инстанции.

// CheckFile проверяет MIME-тип и размер multipart-файла.
func CheckFile(fh *multipart.FileHeader, allowedTypes []string, maxSize int64, typeErr *apperrors.AppError) error {
	if fh.Size > maxSize {
		return apperrors.ErrFileTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	for _, t := range allowedTypes {
		if contentType == t {
			return nil
		}
	}
	return typeErr
}

// CheckResumeFile - гейт для резюме: PDF/DOC/DOCX, не больше лимита.
func CheckResumeFile(fh *multipart.FileHeader, allowedTypes []string, maxSize int64) error {
	return CheckFile(fh, allowedTypes, maxSize, apperrors.ErrResumeFileType)
}

// CheckVideoFile - гейт для загружаемого видео: только MP4.
// Записанные клипы этот гейт обходят (они приходят уже как MP4
// после серверной конвертации).
func CheckVideoFile(fh *multipart.FileHeader, allowedTypes []string, maxSize int64) error {
	return CheckFile(fh, allowedTypes, maxSize, apperrors.ErrVideoFileType)
}
