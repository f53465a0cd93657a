package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/averarp/community-backend/internal/config"
	"github.com/averarp/community-backend/internal/discord"
	httpHandlers "github.com/averarp/community-backend/internal/http/handlers"
	httpRouter "github.com/averarp/community-backend/internal/http/router"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/repository"
	"github.com/averarp/community-backend/internal/service"
	"github.com/averarp/community-backend/internal/storage"
	"github.com/averarp/community-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Файловые хранилища. Все данные — плоские JSON-файлы в DataDir.
	applicationStore, err := storage.NewJSONStore(cfg.DataDir, "applications.json")
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище заявок: %v", err)
	}
	trustStore, err := storage.NewJSONStore(cfg.DataDir, "trust-data.json")
	if err != nil {
		log.Fatalf("main: не удалось подготовить trust-хранилище: %v", err)
	}
	logStore, err := storage.NewJSONStore(cfg.DataDir, "logs.json")
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище журнала: %v", err)
	}
	noteStore, err := storage.NewJSONStore(cfg.DataDir, "user-notes.json")
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище заметок: %v", err)
	}
	imageStorage, err := storage.NewImageStorage(filepath.Join(cfg.DataDir, "notes-images"), cfg.MaxImageSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить хранилище изображений: %v", err)
	}

	// Репозитории.
	applicationRepo, err := repository.NewApplicationRepository(applicationStore)
	if err != nil {
		log.Fatalf("main: не удалось прочитать заявки: %v", err)
	}
	trustRepo, err := repository.NewTrustRepository(trustStore)
	if err != nil {
		log.Fatalf("main: не удалось прочитать trust-данные: %v", err)
	}
	logRepo, err := repository.NewLogRepository(logStore)
	if err != nil {
		log.Fatalf("main: не удалось прочитать журнал: %v", err)
	}
	noteRepo, err := repository.NewNoteRepository(noteStore)
	if err != nil {
		log.Fatalf("main: не удалось прочитать заметки: %v", err)
	}

	// Discord и токены.
	discordClient := discord.NewClient(cfg.DiscordAPIBaseURL, cfg.DiscordBotToken)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	// Сервисы.
	auditService := service.NewAuditService(logRepo)
	trustService := service.NewTrustService(trustRepo, auditService)
	applicationService := service.NewApplicationService(applicationRepo, auditService, discordClient, cfg.WhitelistChannelID)
	moderationService := service.NewModerationService(discordClient, trustService, auditService,
		cfg.DiscordGuildID, cfg.BanRoleID, cfg.WhitelistRoleID)
	memberService := service.NewMemberService(discordClient, trustService, cfg.DiscordGuildID)
	noteService := service.NewNoteService(noteRepo, imageStorage, auditService)
	authService := service.NewAuthService(discordClient, tokenManager, cfg)

	// Live-лента журнала для админки.
	hub := ws.NewHub()
	go hub.Run()
	auditService.SetBroadcaster(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	trustHandler := httpHandlers.NewTrustHandler(trustService)
	applicationHandler := httpHandlers.NewApplicationHandler(applicationService)
	moderationHandler := httpHandlers.NewModerationHandler(moderationService)
	memberHandler := httpHandlers.NewMemberHandler(memberService)
	noteHandler := httpHandlers.NewNoteHandler(noteService)
	logHandler := httpHandlers.NewLogHandler(auditService)
	settingsHandler := httpHandlers.NewSettingsHandler(cfg)
	healthHandler := httpHandlers.NewHealthHandler()
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		authHandler, trustHandler, applicationHandler, moderationHandler,
		memberHandler, noteHandler, logHandler, settingsHandler,
		healthHandler, wsHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
