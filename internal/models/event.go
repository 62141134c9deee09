package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	Location    string    `gorm:"not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	User        User      `json:"-"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// EventStaff links a team member to an event they may scan tickets for.
type EventStaff struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	User      User      `json:"-"`
	CreatedAt time.Time
}

func (EventStaff) TableName() string {
	return "event_staff"
}
