package domain

import "time"

// Notification is the durable per-user record of an event.
type Notification struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user"`
	Message         string    `json:"message"`
	NotifType       NotifType `json:"notif_type"`
	RelatedObjectID *string   `json:"related_object_id"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}
