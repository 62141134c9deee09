package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository reads ticket types, the three transaction ledgers, QR codes
// and profiles. It never writes.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) TicketTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.TicketType, error) {
	var ticketTypes []models.TicketType
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at").Find(&ticketTypes).Error; err != nil {
		return nil, fmt.Errorf("ticket types for event %s: %w", eventID, err)
	}
	return ticketTypes, nil
}

// TransactionPage returns at most limit rows of the channel's ledger whose
// ticket type is in ticketTypeIDs, starting at offset. Rows are ordered by
// creation time then id so consecutive pages do not overlap.
func (r *LedgerRepository) TransactionPage(ctx context.Context, channel models.Channel, ticketTypeIDs []uuid.UUID, offset, limit int) ([]models.Transaction, error) {
	if !channel.Valid() {
		return nil, fmt.Errorf("unknown channel %q", channel)
	}
	if len(ticketTypeIDs) == 0 {
		return nil, nil
	}

	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Table(channel.Table()).
		Where("ticket_type_id IN ?", ticketTypeIDs).
		Order("created_at").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("%s page at %d: %w", channel.Table(), offset, err)
	}

	for i := range transactions {
		transactions[i].Channel = channel
	}
	return transactions, nil
}

func (r *LedgerRepository) QRCodesByTransactions(ctx context.Context, transactionIDs []uuid.UUID) ([]models.QRCode, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}

	var codes []models.QRCode
	if err := r.db.WithContext(ctx).Where("transaction_id IN ?", transactionIDs).Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("qr codes: %w", err)
	}
	return codes, nil
}

func (r *LedgerRepository) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "name", "email").
		Where("id IN ?", ids).
		Scan(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	return profiles, nil
}

// FindTransaction looks a transaction up across every ledger.
func (r *LedgerRepository) FindTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	for _, channel := range models.Channels {
		var transaction models.Transaction
		err := r.db.WithContext(ctx).Table(channel.Table()).Where("id = ?", id).Take(&transaction).Error
		if err == nil {
			transaction.Channel = channel
			return &transaction, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s lookup: %w", channel.Table(), err)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// TicketTypeReferenced reports whether any ledger holds a transaction for the
// ticket type.
func (r *LedgerRepository) TicketTypeReferenced(ctx context.Context, ticketTypeID uuid.UUID) (bool, error) {
	for _, channel := range models.Channels {
		var count int64
		err := r.db.WithContext(ctx).Table(channel.Table()).Where("ticket_type_id = ?", ticketTypeID).Count(&count).Error
		if err != nil {
			return false, fmt.Errorf("%s count: %w", channel.Table(), err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
