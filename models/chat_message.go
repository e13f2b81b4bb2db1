package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// MaxChatMessages caps a user's transcript; oldest rows are dropped first.
const MaxChatMessages = 50

type ChatMessage struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"-"`
	Sender    string    `gorm:"not null" json:"sender"`
	Content   string    `gorm:"not null" json:"content"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
