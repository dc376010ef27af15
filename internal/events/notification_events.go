package events

import "erp-system/internal/entities"

const NotificationCreatedEventName = "notification.created"

// NotificationCreatedEvent публикуется после коммита транзакции,
// в которой сохранено уведомление.
type NotificationCreatedEvent struct {
	Notification entities.Notification
}

func (e NotificationCreatedEvent) Name() string {
	return NotificationCreatedEventName
}
