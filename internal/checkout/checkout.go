// Package checkout prices a ticket order, records it as a pending web
// transaction and signs the payload handed to the hosted payment widget.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTicketTypeNotFound  = errors.New("ticket type not found")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrQuantityOverLimit   = errors.New("quantity exceeds the ticket type limit")
	ErrInvalidChecksum     = errors.New("invalid event checksum")
	ErrInvalidReference    = errors.New("invalid order reference")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAmountMismatch      = errors.New("amount does not match the order total")
	ErrAlreadySettled      = errors.New("transaction already settled")
	ErrUnknownStatus       = errors.New("unknown payment status")
)

type Settings struct {
	PublicKey       string
	IntegritySecret string
	EventsSecret    string
	ReferenceSecret string
	Currency        string
	RedirectURL     string
	// FeeBps is the service fee in basis points of the subtotal.
	FeeBps int64
}

type Totals struct {
	UnitPrice     int64 `json:"unit_price"`
	Quantity      int   `json:"quantity"`
	Subtotal      int64 `json:"subtotal"`
	FeeInCents    int64 `json:"fee_in_cents"`
	Total         int64 `json:"total"`
	AmountInCents int64 `json:"amount_in_cents"`
}

// Quote prices quantity units of ticketType. Prices are whole currency
// units; the widget takes cents, so the fee is computed in cents and Total
// is the charged amount truncated to whole units.
func Quote(ticketType models.TicketType, quantity int, feeBps int64) (Totals, error) {
	if quantity < 1 {
		return Totals{}, ErrInvalidQuantity
	}
	if ticketType.Limit != nil && quantity > *ticketType.Limit {
		return Totals{}, ErrQuantityOverLimit
	}

	subtotal := ticketType.Price * int64(quantity)
	feeInCents := subtotal * 100 * feeBps / 10000
	amountInCents := subtotal*100 + feeInCents
	return Totals{
		UnitPrice:     ticketType.Price,
		Quantity:      quantity,
		Subtotal:      subtotal,
		FeeInCents:    feeInCents,
		Total:         amountInCents / 100,
		AmountInCents: amountInCents,
	}, nil
}

// Session is everything the client needs to open the payment widget.
type Session struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reference     string    `json:"reference"`
	Currency      string    `json:"currency"`
	PublicKey     string    `json:"public_key"`
	Signature     string    `json:"signature"`
	RedirectURL   string    `json:"redirect_url,omitempty"`
	Totals        Totals    `json:"totals"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	settings Settings
	now      func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger, settings Settings) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("checkout"), settings: settings, now: time.Now}
}

// Start quotes the order, stores it as a pending web transaction and
// returns the signed widget session.
func (s *Service) Start(ctx context.Context, userID, ticketTypeID uuid.UUID, quantity int) (*Session, error) {
	db := s.db.WithContext(ctx)

	var ticketType models.TicketType
	if err := db.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("load ticket type: %w", err)
	}

	totals, err := Quote(ticketType, quantity, s.settings.FeeBps)
	if err != nil {
		return nil, err
	}

	transactionID := uuid.New()
	reference, err := helpers.NewOrderReference(transactionID, s.settings.ReferenceSecret, s.now())
	if err != nil {
		return nil, fmt.Errorf("build reference: %w", err)
	}

	qty := quantity
	amountInCents := totals.AmountInCents
	transaction := models.Transaction{
		ID:            transactionID,
		TicketTypeID:  ticketType.ID,
		UserID:        userID,
		Status:        models.StatusPending,
		Quantity:      &qty,
		Total:         totals.Total,
		Reference:     &reference,
		AmountInCents: &amountInCents,
	}
	if err := db.Table(models.ChannelWeb.Table()).Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	s.log.Info("checkout started",
		zap.String("transaction_id", transactionID.String()),
		zap.String("ticket_type_id", ticketType.ID.String()),
		zap.Int("quantity", quantity),
		zap.Int64("total", totals.Total),
	)

	return &Session{
		TransactionID: transactionID,
		Reference:     reference,
		Currency:      s.settings.Currency,
		PublicKey:     s.settings.PublicKey,
		Signature:     helpers.IntegritySignature(reference, totals.AmountInCents, s.settings.Currency, s.settings.IntegritySecret),
		RedirectURL:   s.settings.RedirectURL,
		Totals:        totals,
	}, nil
}
