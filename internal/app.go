package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"flats-service/internal/adapters/cache"
	"flats-service/internal/adapters/feed"
	token_adapter "flats-service/internal/adapters/jwt"
	logger_adapter "flats-service/internal/adapters/logger"
	"flats-service/internal/adapters/notifier"
	postgres_adapter "flats-service/internal/adapters/postgres"
	rabbitmq_adapter "flats-service/internal/adapters/rabbitmq"
	"flats-service/internal/adapters/rest"
	"flats-service/internal/configs"
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"flats-service/internal/core/usecase"
	"flats-service/pkg/fluentlogger"
	"flats-service/pkg/postgres"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	flatEventsConsumer *rabbitmq_adapter.FlatEventsConsumerAdapter

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	userRepository, err := postgres_adapter.NewUserRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres user repository", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	flatStorage, err := postgres_adapter.NewFlatStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres flat storage", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create flat storage adapter: %w", err)
	}

	tokenService, err := token_adapter.NewTokenService(appConfig.Jwt.SECRET_KEY)
	if err != nil {
		appLogger.Error("Failed to create token service", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	slotNotifier := notifier.NewSlotNotifier(domain.NotificationAutoHide, baseLogger)
	queryCache := cache.NewQueryCache(baseLogger)
	flatFeed := feed.NewFlatFeed(flatStorage, baseLogger)
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 4. USE CASES (ядро бизнес-логики) ---
	tokenTTL := time.Duration(appConfig.Jwt.TOKEN_TTL_HOURS) * time.Hour
	registerUseCase := usecase.NewRegisterUserUseCase(userRepository, tokenService, slotNotifier, tokenTTL)
	loginUseCase := usecase.NewLoginUserUseCase(userRepository, tokenService, slotNotifier, tokenTTL)
	logoutUseCase := usecase.NewLogoutUserUseCase(queryCache, slotNotifier)
	resolveSessionUseCase := usecase.NewResolveSessionUseCase(tokenService)
	getProfileUseCase := usecase.NewGetProfileUseCase(userRepository)
	searchFlatsUseCase := usecase.NewSearchFlatsUseCase(flatStorage, queryCache)
	ingestFlatUseCase := usecase.NewIngestFlatUseCase(flatStorage, flatFeed)

	// --- 5. ВХОДНЫЕ АДАПТЕРЫ ---
	var flatEventsConsumer *rabbitmq_adapter.FlatEventsConsumerAdapter
	if appConfig.RabbitMQ.Enabled {
		flatEventsConsumer, err = rabbitmq_adapter.NewFlatEventsConsumerAdapter(appConfig.RabbitMQ.URL, ingestFlatUseCase, baseLogger)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ consumer", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create flat events consumer: %w", err)
		}
	}

	authHandlers := rest.NewAuthHandlers(registerUseCase, loginUseCase, logoutUseCase, getProfileUseCase)
	flatsHandlers := rest.NewFlatsHandlers(searchFlatsUseCase, flatFeed)
	notificationHandlers := rest.NewNotificationHandlers(slotNotifier)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigin,
		authHandlers, flatsHandlers, notificationHandlers, resolveSessionUseCase, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	// --- 6. СОБИРАЕМ ПРИЛОЖЕНИЕ ---
	application := &App{
		config:             appConfig,
		dbPool:             dbPool,
		apiServer:          apiServer,
		flatEventsConsumer: flatEventsConsumer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Единый контекст приложения для graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.flatEventsConsumer != nil {
			if err := a.flatEventsConsumer.Close(); err != nil {
				a.logger.Error("Error during RabbitMQ consumer shutdown", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)

	if a.flatEventsConsumer != nil {
		go func() {
			a.logger.Info("Starting flat events listener...", nil)
			if err := a.flatEventsConsumer.Start(appCtx); err != nil {
				serverErrors <- fmt.Errorf("flat events listener failed: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
