package entities

import "time"

type Notification struct {
	ID              uint64     `json:"id"`
	UserID          uint64     `json:"userId"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	IsRead          bool       `json:"isRead"`
	RelatedEntity   *string    `json:"relatedEntity,omitempty"`
	RelatedEntityID *uint64    `json:"relatedEntityId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ReadAt          *time.Time `json:"readAt,omitempty"`
}
