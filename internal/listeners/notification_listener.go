package listeners

import (
	"context"

	"go.uber.org/zap"

	"erp-system/internal/events"
	"erp-system/internal/services"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/websocket"
)

// NotificationListener отправляет сохранённые уведомления в открытые сокеты получателя.
type NotificationListener struct {
	wsNotificationService services.WebSocketNotificationServiceInterface
	logger                *zap.Logger
}

func NewNotificationListener(
	wsNotificationService services.WebSocketNotificationServiceInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		wsNotificationService: wsNotificationService,
		logger:                logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.NotificationCreatedEventName, l.handleNotificationCreated)
	l.logger.Info("NotificationListener subscribed", zap.String("event", events.NotificationCreatedEventName))
}

func (l *NotificationListener) handleNotificationCreated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.NotificationCreatedEvent)
	if !ok {
		return nil
	}
	n := e.Notification

	payload := websocket.NotificationPayload{
		ID:              n.ID,
		Type:            n.Type,
		Title:           n.Title,
		Message:         n.Message,
		RelatedEntityID: n.RelatedEntityID,
		CreatedAt:       n.CreatedAt,
	}
	if n.RelatedEntity != nil {
		payload.RelatedEntity = *n.RelatedEntity
	}

	if err := l.wsNotificationService.SendNotification(n.UserID, payload, websocket.MessageTypeNotification); err != nil {
		l.logger.Error("failed to push notification over websocket",
			zap.Uint64("userID", n.UserID), zap.Uint64("notificationID", n.ID), zap.Error(err))
		return err
	}
	return nil
}
