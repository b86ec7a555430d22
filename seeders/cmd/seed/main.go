package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"claim-system/internal/repositories"
	"claim-system/pkg/config"
	"claim-system/pkg/database/postgresql"
	"claim-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	username := flag.String("user", "", "Имя создаваемого пользователя")
	password := flag.String("password", "", "Пароль пользователя")
	email := flag.String("email", "", "Email пользователя (необязательно)")
	runMigrate := flag.Bool("migrate", false, "Применить миграции перед наполнением")

	flag.Parse()

	if !*runMigrate && *username == "" {
		log.Println("❌ Не выбрано ни одной операции.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -migrate")
		log.Println("  go run ./seeders/cmd/seed -user operator -password secret123")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	cfg := config.New()

	if *runMigrate {
		if err := postgresql.Migrate(ctx, cfg.Postgres.DSN); err != nil {
			log.Fatalf("❌ Ошибка применения миграций: %v", err)
		}
		log.Println("✅ Миграции применены.")
	}

	if *username != "" {
		dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, zap.NewNop())
		if err != nil {
			log.Fatalf("❌ Не удалось подключиться к базе данных: %v", err)
		}
		defer dbPool.Close()

		repo := repositories.NewUserRepository(dbPool, zap.NewNop())
		if _, err := seeders.SeedUser(ctx, repo, seeders.UserSeed{
			Username: *username,
			Password: *password,
			Email:    *email,
		}); err != nil {
			log.Fatalf("❌ Ошибка создания пользователя: %v", err)
		}
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
