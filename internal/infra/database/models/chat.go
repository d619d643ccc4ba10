package models

import (
	"time"
)

type Room struct {
	ID    int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string    `json:"name" gorm:"type:text;uniqueIndex"`
	CDate time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Message struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RoomID   int64     `json:"roomID" gorm:"not null;index:idx_message_room_timestamp,priority:1"`
	Room     Room      `json:"-" gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:CASCADE;"`
	SenderID *string   `json:"senderID" gorm:"type:text"`
	Username string    `json:"username" gorm:"type:text;not null"`
	Content  string    `json:"content" gorm:"type:text;not null"`
	SentAt   time.Time `json:"sentAt" gorm:"type:timestamp with time zone;not null;index:idx_message_room_timestamp,priority:2"`
}

type GroupMember struct {
	GroupID string `json:"groupID" gorm:"primaryKey;type:text"`
	UserID  string `json:"userID" gorm:"primaryKey;type:text"`
	User    User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}

type EventParticipant struct {
	EventID string `json:"eventID" gorm:"primaryKey;type:text"`
	UserID  string `json:"userID" gorm:"primaryKey;type:text"`
	User    User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}
