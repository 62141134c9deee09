package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QRCode struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	TransactionID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	ScannerID       *uuid.UUID `gorm:"type:uuid"`
	Scanned         bool       `gorm:"not null;default:false"`
	AppleWalletURL  *string
	GoogleWalletURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (QRCode) TableName() string {
	return "qr_codes"
}

func (qr *QRCode) BeforeCreate(tx *gorm.DB) (err error) {
	if qr.ID == uuid.Nil {
		qr.ID = uuid.New()
	}
	return
}
