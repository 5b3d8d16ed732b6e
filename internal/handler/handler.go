package handler

import (
	"time"

	"engeybot/internal/middleware"
	"engeybot/internal/repository"
	"engeybot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	telemw "gopkg.in/telebot.v3/middleware"
)

// Services groups the collaborators the handlers delegate to
type Services struct {
	Relay     *service.RelayService
	Broadcast *service.BroadcastService
	Stats     *service.StatsService
	Registry  repository.ChatRegistry
	Notifier  service.Notifier
}

// Settings holds handler level configuration
type Settings struct {
	AdminChatID  int64
	AllowedUsers []int64
	Marker       string
	Timeout      time.Duration
}

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	services Services
	settings Settings
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, services Services, settings Settings, logger *zap.Logger) *Handler {
	return &Handler{
		bot:      bot,
		services: services,
		settings: settings,
		logger:   logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(telemw.Recover(h.onPanic))
	h.bot.Use(middleware.RegisterChat(h.services.Registry, h.services.Notifier, h.settings.Timeout, h.logger))

	users := h.bot.Group()
	users.Use(middleware.AllowedUsers(h.settings.AllowedUsers...))

	// Commands
	users.Handle("/start", h.handleStart)

	// Text messages, including unknown commands
	users.Handle(tele.OnText, h.handleText)

	// Admin chat only
	admin := h.bot.Group()
	admin.Use(middleware.AdminOnly(h.settings.AdminChatID))
	admin.Handle("/broadcast", h.handleBroadcast)
	admin.Handle("/stats", h.handleStats)
}

func (h *Handler) onPanic(err error, c tele.Context) {
	fields := []zap.Field{zap.Error(err)}
	if chat := c.Chat(); chat != nil {
		fields = append(fields, zap.Int64("chat_id", chat.ID))
	}
	h.logger.Error("Recovered from handler panic", fields...)
}
