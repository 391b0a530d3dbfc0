package model

import (
	"time"
)

// RevokedToken records a logged-out token id until the token would have expired.
type RevokedToken struct {
	JTI       string    `gorm:"type:varchar(64);primarykey" json:"jti"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
