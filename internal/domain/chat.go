package domain

import "time"

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	SenderID  *string   `json:"sender"`
	Username  string    `json:"username"`
	Content   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
