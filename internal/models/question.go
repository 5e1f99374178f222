package models

// Question - текст вопроса с порядковым индексом. Сейчас в проде один
// захардкоженный вопрос, но модель поддерживает упорядоченную
// последовательность из N вопросов с независимым статусом выполнения.
// После загрузки в сессию список неизменяем.
type Question struct {
	BaseModel
	Text  string `gorm:"not null" json:"text"`
	Order int    `gorm:"column:order_index;not null" json:"order"`
}
