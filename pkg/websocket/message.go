package websocket

import "time"

// Envelope - обёртка для каждого push от сервера.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const MessageTypeNotification = "notification"

// NotificationPayload - запись для колокольчика в браузере.
type NotificationPayload struct {
	ID              uint64    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	RelatedEntity   string    `json:"relatedEntity,omitempty"`
	RelatedEntityID *uint64   `json:"relatedEntityId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
