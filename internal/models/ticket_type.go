package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketType struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Price     int64     `gorm:"not null"`
	Limit     *int
	EventID   uuid.UUID `gorm:"type:uuid;index"`
	Event     Event     `json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ticketType *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if ticketType.ID == uuid.Nil {
		ticketType.ID = uuid.New()
	}
	return
}
