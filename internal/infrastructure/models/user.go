package models

import (
	"time"
)

// User is the GORM model for the users table
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:USER"`
	CreatedAt    time.Time
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
