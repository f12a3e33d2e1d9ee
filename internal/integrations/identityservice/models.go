package identityservice

// User модель пользователя из IdentityService
// Движок бронирования использует только идентификатор и роль:
// никакой логики аутентификации здесь нет
type User struct {
	ID   int64  `json:"id"`
	Role string `json:"role"` // customer | owner | admin
}

// ErrorResponse модель ошибки от IdentityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
