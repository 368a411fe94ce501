package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB
	DBContextKey = contextKey("db")

	// UserIDKey - идентификатор пользователя из проверенного токена
	UserIDKey = "userID"

	// ClaimsKey - проверенные claims (*identity.Claims)
	ClaimsKey = "claims"

	// RolesKey - набор ролей, загруженный RequireRoles (*models.RoleSet)
	RolesKey = "roles"
)
