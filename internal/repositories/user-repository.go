package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"claim-system/internal/entities"
	apperrors "claim-system/pkg/errors"
)

const userTable = "users"

var userFields = []string{"id", "username", "password", "email", "created_at", "updated_at"}

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	query, args, err := psql.Insert(userTable).
		Columns("username", "password", "email").
		Values(user.Username, user.Password, user.Email).
		Suffix("RETURNING " + joinFields(userFields)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса создания пользователя: %w", err)
	}

	created, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("пользователь %q уже существует: %w", user.Username, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	r.logger.Info("Создан пользователь", zap.String("username", created.Username))
	return created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := psql.Select(userFields...).From(userTable).Where(sq.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса пользователя: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}
