package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, под которым в context лежит активная транзакция *gorm.DB
	DBContextKey = contextKey("db")

	// PrincipalContextKey - ключ для auth.Principal текущего запроса
	PrincipalContextKey = contextKey("principal")
)
