package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ChatSession is one customer's entire transcript with the admin side.
// Keyed by the customer id; at most one session per customer.
type ChatSession struct {
	CustomerID   snowflake.ID `gorm:"primaryKey" json:"customerId"`
	CustomerName string       `gorm:"not null" json:"customerName"`
	Messages     []Message    `gorm:"foreignKey:SessionID;references:CustomerID" json:"messages"`
	LastUpdated  time.Time    `gorm:"not null;index" json:"lastUpdated"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

type Message struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SessionID  snowflake.ID `gorm:"not null;index" json:"-"`
	SenderID   snowflake.ID `gorm:"not null" json:"senderId"`
	SenderName string       `gorm:"not null" json:"senderName"`
	Text       string       `json:"text,omitempty"`
	ImageURL   string       `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Timestamp  time.Time    `gorm:"not null" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }
