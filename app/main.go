package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"claim-system/internal/listeners"
	"claim-system/internal/routes"
	"claim-system/pkg/config"
	"claim-system/pkg/database/postgresql"
	apperrors "claim-system/pkg/errors"
	"claim-system/pkg/eventbus"
	applogger "claim-system/pkg/logger"
	appmiddleware "claim-system/pkg/middleware"
	"claim-system/pkg/utils"
	"claim-system/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	e.Validator = validation.New()

	// 3. База данных: сначала миграции, потом пул
	ctx := context.Background()
	if err := postgresql.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		logger.Fatal("Ошибка применения миграций", zap.Error(err))
	}
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к базе данных", zap.Error(err))
	}
	defer dbConn.Close()

	// 4. Redis нужен только для общей блокировки импорта
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redisClient.Close()
	} else {
		logger.Info("REDIS_ADDRESS не задан, блокировка импорта внутри процесса")
	}

	// 5. Шина событий и журнал действий
	bus := eventbus.New(logger.Named("eventbus"))
	auditListener := listeners.NewAuditListener(logger.Named("audit"))
	auditListener.Register(bus)

	// 6. Сервисы и маршруты
	loggers := &routes.Loggers{
		Main:       logger,
		Order:      logger.Named("orders"),
		Import:     logger.Named("import"),
		Attachment: logger.Named("attachments"),
	}
	svc, err := routes.NewServices(dbConn, redisClient, bus, loggers, cfg)
	if err != nil {
		logger.Fatal("Ошибка инициализации сервисов", zap.Error(err))
	}
	routes.InitRouter(e, svc, loggers)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go svc.Hub.Run(hubCtx)
	listeners.NewLiveListener(svc.Hub, logger.Named("live")).Register(bus)

	if cfg.Server.StaticDir != "" {
		e.Static("/", cfg.Server.StaticDir)
	}

	// 7. Запуск и корректная остановка
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("addr", server.Addr))
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}

	bus.Wait()
	stopHub()
	auditListener.Close()
	logger.Info("Сервер остановлен")
}
