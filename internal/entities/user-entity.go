// Файл: internal/entities/user_entity.go
package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// User в маршрутах не участвует, заводится сидером.
type User struct {
	ID        uint64      `json:"id" db:"id"`
	Username  string      `json:"username" db:"username"`
	Password  string      `json:"-" db:"password"`
	Email     null.String `json:"email" db:"email"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}
