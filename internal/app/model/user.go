package model

import (
	"time"
)

type UserRole string

const (
	RoleRegular UserRole = "regular"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"type:varchar(512)" json:"avatar"`
	Role         UserRole  `gorm:"type:varchar(20);default:'regular'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
