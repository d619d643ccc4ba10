package models

import (
	"time"
)

type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Username string    `json:"username" gorm:"type:text;uniqueIndex"`
	IsActive bool      `json:"isActive" gorm:"type:boolean;not null;default:true;index"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Notification struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string    `json:"userID" gorm:"type:text;not null;index:idx_notification_user_cdate,priority:1"`
	User            User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Message         string    `json:"message" gorm:"type:text;not null"`
	NotifType       string    `json:"notifType" gorm:"type:varchar(20);not null"`
	RelatedObjectID *string   `json:"relatedObjectID" gorm:"type:text"`
	IsRead          bool      `json:"isRead" gorm:"type:boolean;not null;default:false"`
	CDate           time.Time `json:"cdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp();index:idx_notification_user_cdate,priority:2,sort:desc"`
}

type HelpRequest struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"type:text"`
	Location    string    `json:"location" gorm:"type:text"`
	Latitude    *float64  `json:"latitude" gorm:"type:double precision"`
	Longitude   *float64  `json:"longitude" gorm:"type:double precision"`
	Status      string    `json:"status" gorm:"type:text;not null;default:'open'"`
	IsEmergency bool      `json:"isEmergency" gorm:"type:boolean;not null;default:false"`
	CreatedBy   string    `json:"createdBy" gorm:"type:text;index"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type DonationCampaign struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"type:text;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	TargetAmount  float64   `json:"targetAmount" gorm:"type:numeric(12,2);not null;default:0"`
	CurrentAmount float64   `json:"currentAmount" gorm:"type:numeric(12,2);not null;default:0"`
	Location      string    `json:"location" gorm:"type:text"`
	CreatedBy     *string   `json:"createdBy" gorm:"type:text"`
	CDate         time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
