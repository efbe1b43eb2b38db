package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// AdminID is the fixed identity of the single administrator account,
// seeded at startup.
const AdminID = snowflake.ID(1)

type User struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	Role           Role         `gorm:"not null" json:"role"`
	InvitationCode string       `gorm:"column:invitation_code" json:"invitationCode,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"-"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
