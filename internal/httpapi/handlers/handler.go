package handlers

import (
	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/chat"
	"github.com/eternal-365/educonnect/internal/config"
	"github.com/eternal-365/educonnect/internal/email"
	"github.com/eternal-365/educonnect/internal/store/rabbitmq"
	"github.com/eternal-365/educonnect/internal/users"
)

type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	Users       *users.Service
	ChatSvc     *chat.Service
	Rabbit      *rabbitmq.Publisher // nil when the async path is disabled
	SMTPSetting email.SMTPConfig
}

func NewHandler(db *gorm.DB, cfg config.Config, usersSvc *users.Service, chatSvc *chat.Service, rabbit *rabbitmq.Publisher) *Handler {
	return &Handler{
		DB:      db,
		Cfg:     cfg,
		Users:   usersSvc,
		ChatSvc: chatSvc,
		Rabbit:  rabbit,
		SMTPSetting: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
	}
}
