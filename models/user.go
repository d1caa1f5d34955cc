package models

import (
	"time"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleDesigner = "designer"
	RoleWorker   = "worker"
	RoleManager  = "manager"
)

// User represents an account that can sign in to one of the panels.
// Time logs reference workers by display name, not by user ID; the ledger
// never consults this table.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `gorm:"size:100;not null" json:"display_name"`
	Role         string `gorm:"size:20;not null;default:'worker'" json:"role"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	// Stage assignment gates which stages show up in a worker's panel
	Stages []ProductionStage `gorm:"many2many:user_stages;" json:"stages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
