package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channel names the ledger a transaction was read from.
type Channel string

const (
	ChannelApp  Channel = "app"
	ChannelWeb  Channel = "web"
	ChannelCash Channel = "cash"
)

// Channels lists every ledger in merge order.
var Channels = []Channel{ChannelApp, ChannelWeb, ChannelCash}

func (ch Channel) Table() string {
	return string(ch) + "_transactions"
}

func (ch Channel) Valid() bool {
	switch ch {
	case ChannelApp, ChannelWeb, ChannelCash:
		return true
	}
	return false
}

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	// StatusPaidWithQR marks a paid transaction whose QR codes should exist.
	StatusPaidWithQR = "PAID_WITH_QR"
	StatusDeclined   = "DECLINED"
	StatusVoided     = "VOIDED"
)

// Transaction is a row of one of the three channel ledgers. The same struct
// backs app_transactions, web_transactions and cash_transactions; Channel is
// filled in by the reader and never stored.
type Transaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	TicketTypeID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Status       string    `gorm:"not null;default:'PENDING';index"`
	Quantity     *int
	Total        int64   `gorm:"not null;default:0"`
	Reference    *string `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// AmountInCents is the exact amount charged at checkout, when it
	// differs from Total in whole units.
	AmountInCents *int64

	Channel Channel `gorm:"-"`
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	return
}

// ChargedCents is the amount the payment provider is expected to collect.
func (transaction *Transaction) ChargedCents() int64 {
	if transaction.AmountInCents != nil {
		return *transaction.AmountInCents
	}
	return transaction.Total * 100
}

// ExpectedQRCodes is the number of codes a paid transaction should own.
// A missing or non-positive quantity counts as one.
func (transaction *Transaction) ExpectedQRCodes() int {
	if transaction.Quantity == nil || *transaction.Quantity <= 0 {
		return 1
	}
	return *transaction.Quantity
}

// AppTransaction, WebTransaction and CashTransaction give each ledger its own
// table and index names during migration.
type AppTransaction struct{ Transaction }

func (AppTransaction) TableName() string { return ChannelApp.Table() }

type WebTransaction struct{ Transaction }

func (WebTransaction) TableName() string { return ChannelWeb.Table() }

type CashTransaction struct{ Transaction }

func (CashTransaction) TableName() string { return ChannelCash.Table() }
