package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому мы храним *gorm.DB в context
// (пул соединений в проде, транзакция в интеграционных тестах)
const DBContextKey = contextKey("db")
