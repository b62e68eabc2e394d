package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/file-vault-service/internal/events"
)

// AuditService writes a structured audit trail for domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventFileUploaded, a.handleFileUploaded)
	a.dispatcher.Subscribe(events.EventFileDeleted, a.handleFileDeleted)
}

func (a *AuditService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered",
		zap.String("actor_id", event.ActorID.String()),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleFileUploaded(ctx context.Context, event events.Event) error {
	a.logger.Info("FileUploaded",
		zap.String("actor_id", event.ActorID.String()),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleFileDeleted(ctx context.Context, event events.Event) error {
	a.logger.Info("FileDeleted",
		zap.String("actor_id", event.ActorID.String()),
		zap.Any("payload", event.Payload))
	return nil
}
