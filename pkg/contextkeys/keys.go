package contextkeys

type contextKey string

const (
	UserIDKey             contextKey = "UserID"
	UserRoleIDKey         contextKey = "UserRoleID"
	UserPermissionsMapKey contextKey = "userPermissionsMap"
	TokenIDKey            contextKey = "TokenID"
	TokenExpiresAtKey     contextKey = "TokenExpiresAt"
)
