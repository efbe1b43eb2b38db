package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Invitation struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"-"`
	Code       string       `gorm:"uniqueIndex;not null" json:"code"`
	IsUsed     bool         `gorm:"not null;default:false" json:"isUsed"`
	AssignedTo string       `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time    `gorm:"not null" json:"-"`
}

func (Invitation) TableName() string { return "invitations" }
