package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null;default:''"`
	Email       string    `gorm:"unique;not null"`
	Password    string    `gorm:"not null" json:"-"`
	PhoneNumber string    `gorm:"not null;default:''"`
	RoleID      uuid.UUID `gorm:"type:uuid"`
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// Profile is the read-only identity projection of a user.
type Profile struct {
	ID    uuid.UUID
	Name  string
	Email string
}
