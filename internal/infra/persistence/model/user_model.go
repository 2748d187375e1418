package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
type UserModel struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username              string    `gorm:"type:varchar(100);unique;not null"`
	FirstName             string    `gorm:"type:varchar(100)"`
	LastName              string    `gorm:"type:varchar(100)"`
	Email                 string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash          string    `gorm:"type:varchar(255);not null"`
	PasswordChangedAt     *time.Time
	PasswordResetRequired bool `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	AccessTokens []AccessTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
