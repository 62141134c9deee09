package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider statuses carried by payment notifications.
const (
	PaymentApproved = "APPROVED"
	PaymentDeclined = "DECLINED"
	PaymentVoided   = "VOIDED"
	PaymentError    = "ERROR"
)

type PaymentEvent struct {
	Reference     string `json:"reference" binding:"required"`
	Status        string `json:"status" binding:"required"`
	AmountInCents int64  `json:"amount_in_cents" binding:"required"`
	Checksum      string `json:"checksum" binding:"required"`
}

func ledgerStatus(providerStatus string) (string, error) {
	switch providerStatus {
	case PaymentApproved:
		return models.StatusPaid, nil
	case PaymentDeclined, PaymentError:
		return models.StatusDeclined, nil
	case PaymentVoided:
		return models.StatusVoided, nil
	}
	return "", ErrUnknownStatus
}

// ApplyPaymentEvent settles the pending web transaction a provider
// notification refers to. Re-delivery of an already applied event is a
// no-op; a conflicting one fails with ErrAlreadySettled.
func (s *Service) ApplyPaymentEvent(ctx context.Context, evt PaymentEvent) (*models.Transaction, error) {
	expected := helpers.EventChecksum(evt.Reference, evt.Status, evt.AmountInCents, s.settings.EventsSecret)
	if !helpers.ChecksumEqual(expected, evt.Checksum) {
		return nil, ErrInvalidChecksum
	}

	status, err := ledgerStatus(evt.Status)
	if err != nil {
		return nil, err
	}

	transactionID, err := helpers.ExtractTransactionID(evt.Reference, s.settings.ReferenceSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	db := s.db.WithContext(ctx).Table(models.ChannelWeb.Table())

	var transaction models.Transaction
	if err := db.Where("id = ?", transactionID).Take(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	transaction.Channel = models.ChannelWeb

	if transaction.Reference == nil || *transaction.Reference != evt.Reference {
		return nil, ErrInvalidReference
	}
	if transaction.ChargedCents() != evt.AmountInCents {
		return nil, ErrAmountMismatch
	}

	if transaction.Status != models.StatusPending {
		if transaction.Status == status {
			return &transaction, nil
		}
		return nil, ErrAlreadySettled
	}

	result := s.db.WithContext(ctx).
		Table(models.ChannelWeb.Table()).
		Where("id = ? AND status = ?", transaction.ID, models.StatusPending).
		Updates(map[string]interface{}{"status": status, "updated_at": s.now().UTC()})
	if result.Error != nil {
		return nil, fmt.Errorf("update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadySettled
	}

	s.log.Info("payment event applied",
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("provider_status", evt.Status),
		zap.String("status", status),
	)

	transaction.Status = status
	return &transaction, nil
}
