// Package scanning flips the scanned flag of a QR code at the door.
package scanning

import (
	"context"
	"time"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgNotAuthenticated = "not authenticated"
	MsgStale            = "qr code not found or already toggled"
)

// Result is what the caller sees for a toggle attempt. A failed toggle is
// never silent: Success is false and Error carries the reason.
type Result struct {
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
	QRCodeID  uuid.UUID  `json:"qr_code_id"`
	Scanned   bool       `json:"scanned"`
	ScannerID *uuid.UUID `json:"scanner_id"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("scanning"), now: time.Now}
}

// Toggle sets the code's scanned flag to !currentScanned. Turning it on
// records actorID as the scanner; turning it off clears the scanner. The
// write only applies while the stored flag still equals currentScanned.
func (s *Service) Toggle(ctx context.Context, qrID uuid.UUID, currentScanned bool, actorID *uuid.UUID) Result {
	result := Result{QRCodeID: qrID, Scanned: currentScanned}
	if actorID == nil || *actorID == uuid.Nil {
		result.Error = MsgNotAuthenticated
		return result
	}

	next := !currentScanned
	var scannerID *uuid.UUID
	if next {
		id := *actorID
		scannerID = &id
	}
	now := s.now().UTC()

	updates := map[string]interface{}{
		"scanned":    next,
		"scanner_id": nil,
		"updated_at": now,
	}
	if scannerID != nil {
		updates["scanner_id"] = *scannerID
	}

	tx := s.db.WithContext(ctx).
		Model(&models.QRCode{}).
		Where("id = ? AND scanned = ?", qrID, currentScanned).
		Updates(updates)
	if tx.Error != nil {
		s.log.Error("toggle scan failed", zap.String("qr_code_id", qrID.String()), zap.Error(tx.Error))
		result.Error = tx.Error.Error()
		return result
	}
	if tx.RowsAffected == 0 {
		result.Error = MsgStale
		return result
	}

	s.log.Info("qr code scan toggled",
		zap.String("qr_code_id", qrID.String()),
		zap.Bool("scanned", next),
		zap.String("actor_id", actorID.String()),
	)

	result.Success = true
	result.Scanned = next
	result.ScannerID = scannerID
	result.UpdatedAt = now
	return result
}
