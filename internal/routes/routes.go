package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claim-system/internal/repositories"
	"claim-system/internal/services"
	"claim-system/pkg/config"
	"claim-system/pkg/eventbus"
	"claim-system/pkg/filestorage"
	"claim-system/pkg/websocket"
)

type Loggers struct {
	Main       *zap.Logger
	Order      *zap.Logger
	Import     *zap.Logger
	Attachment *zap.Logger
}

// Services - всё, что нужно маршрутам. Собирается NewServices или в тестах вручную.
type Services struct {
	Orders      services.OrderServiceInterface
	Imports     services.OrderImportServiceInterface
	Attachments services.AttachmentServiceInterface
	DB          Pinger
	// Hub - поток событий для UI, nil - маршрут /api/ws не регистрируется
	Hub            *websocket.Hub
	AllowedOrigins []string
}

// NewServices собирает репозитории и сервисы поверх пула и (необязательного) Redis.
func NewServices(dbConn *pgxpool.Pool, redisClient *redis.Client, bus *eventbus.Bus, loggers *Loggers, cfg *config.Config) (*Services, error) {
	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn, loggers.Order)
	logRepo := repositories.NewLogRepository(dbConn)

	// --- 2. ХРАНИЛИЩА ---
	images, err := filestorage.NewImageStorage(cfg.Storage.ImagesDir)
	if err != nil {
		return nil, err
	}
	archive, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadsDir)
	if err != nil {
		return nil, err
	}

	var locker services.ImportLocker
	if redisClient != nil {
		locker = services.NewRedisImportLocker(repositories.NewRedisCacheRepository(redisClient), cfg.Import.LockTTL, loggers.Import)
	} else {
		locker = services.NewLocalImportLocker()
	}

	// --- 3. СЕРВИСЫ ---
	return &Services{
		Orders:      services.NewOrderService(txManager, orderRepo, logRepo, bus, loggers.Order),
		Imports:     services.NewOrderImportService(orderRepo, locker, archive, bus, loggers.Import),
		Attachments: services.NewAttachmentService(orderRepo, images, filestorage.NewOpener(cfg.Storage.OpenOnHost, loggers.Attachment), loggers.Attachment),
		DB:          dbConn,

		Hub:            websocket.NewHub(loggers.Main.Named("ws")),
		AllowedOrigins: cfg.Server.CORSOrigins,
	}, nil
}

func InitRouter(e *echo.Echo, svc *Services, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	runOrderRouter(api, svc.Orders, loggers.Order)
	runUploadRouter(api, svc.Imports, loggers.Import)
	runAttachmentRouter(api, svc.Attachments, loggers.Attachment)
	if svc.Hub != nil {
		runWebSocketRouter(api, svc.Hub, svc.AllowedOrigins, loggers.Main)
	}
	if svc.DB != nil {
		runHealthRouter(e, svc.DB, loggers.Main)
	}

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}
