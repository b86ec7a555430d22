package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aarondl/null/v8"

	"claim-system/internal/entities"
	"claim-system/internal/repositories"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/utils"
)

// UserSeed - учётная запись оператора для первичного наполнения.
type UserSeed struct {
	Username string
	Password string
	Email    string
}

// SeedUser создаёт пользователя, если его ещё нет. Повторный запуск ничего не меняет.
// Возвращает true, если пользователь был создан.
func SeedUser(ctx context.Context, repo repositories.UserRepositoryInterface, seed UserSeed) (bool, error) {
	if seed.Username == "" || seed.Password == "" {
		return false, fmt.Errorf("имя пользователя и пароль обязательны")
	}

	log.Printf("  - Создание пользователя '%s'...", seed.Username)
	_, err := repo.FindByUsername(ctx, seed.Username)
	if err == nil {
		log.Printf("    - Пользователь '%s' уже существует. Пропускаем.", seed.Username)
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	hashedPassword, err := utils.HashPassword(seed.Password)
	if err != nil {
		return false, err
	}

	user := entities.User{
		Username: seed.Username,
		Password: hashedPassword,
	}
	if seed.Email != "" {
		user.Email = null.StringFrom(seed.Email)
	}
	if _, err := repo.CreateUser(ctx, user); err != nil {
		return false, err
	}

	log.Printf("    - Пользователь '%s' создан.", seed.Username)
	return true, nil
}
