package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testSettings = Settings{
	PublicKey:       "pub_test_123",
	IntegritySecret: "integrity",
	EventsSecret:    "events",
	ReferenceSecret: "jwt-secret",
	Currency:        "COP",
	RedirectURL:     "https://example.com/done",
	FeeBps:          500,
}

func TestQuote(t *testing.T) {
	limit := 4
	ticketType := models.TicketType{Price: 80000, Limit: &limit}

	totals, err := Quote(ticketType, 3, 500)
	require.NoError(t, err)
	assert.Equal(t, Totals{UnitPrice: 80000, Quantity: 3, Subtotal: 240000, FeeInCents: 1200000, Total: 252000, AmountInCents: 25200000}, totals)

	_, err = Quote(ticketType, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = Quote(ticketType, 5, 0)
	assert.ErrorIs(t, err, ErrQuantityOverLimit)

	fractional, err := Quote(models.TicketType{Price: 999}, 1, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(2497), fractional.FeeInCents)
	assert.Equal(t, int64(102397), fractional.AmountInCents)
	assert.Equal(t, int64(1023), fractional.Total)

	unlimited, err := Quote(models.TicketType{Price: 10}, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), unlimited.Total)
}

func setup(t *testing.T) (*Service, *gorm.DB, models.TicketType) {
	t.Helper()
	db := testutil.OpenDB(t)
	ticketType := models.TicketType{Name: "Platea", Price: 80000, EventID: uuid.New()}
	require.NoError(t, db.Create(&ticketType).Error)
	svc := NewService(db, zap.NewNop(), testSettings)
	svc.now = func() time.Time { return time.Unix(1760000000, 0) }
	return svc, db, ticketType
}

func TestStart_RecordsPendingWebTransaction(t *testing.T) {
	svc, db, ticketType := setup(t)
	buyer := uuid.New()

	session, err := svc.Start(context.Background(), buyer, ticketType.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, "COP", session.Currency)
	assert.Equal(t, "pub_test_123", session.PublicKey)
	assert.Equal(t, int64(16800000), session.Totals.AmountInCents)
	assert.Equal(t, helpers.IntegritySignature(session.Reference, 16800000, "COP", "integrity"), session.Signature)

	var stored models.Transaction
	require.NoError(t, db.Table(models.ChannelWeb.Table()).Where("id = ?", session.TransactionID).Take(&stored).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, buyer, stored.UserID)
	assert.Equal(t, int64(168000), stored.Total)
	require.NotNil(t, stored.Quantity)
	assert.Equal(t, 2, *stored.Quantity)
	require.NotNil(t, stored.Reference)
	assert.Equal(t, session.Reference, *stored.Reference)

	id, err := helpers.ExtractTransactionID(session.Reference, "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, session.TransactionID, id)
}

func TestStart_UnknownTicketType(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Start(context.Background(), uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrTicketTypeNotFound)
}

func event(reference, status string, amount int64) PaymentEvent {
	return PaymentEvent{
		Reference:     reference,
		Status:        status,
		AmountInCents: amount,
		Checksum:      helpers.EventChecksum(reference, status, amount, "events"),
	}
}

func TestApplyPaymentEvent(t *testing.T) {
	svc, _, ticketType := setup(t)
	ctx := context.Background()
	session, err := svc.Start(ctx, uuid.New(), ticketType.ID, 1)
	require.NoError(t, err)
	amount := session.Totals.AmountInCents

	bad := event(session.Reference, PaymentApproved, amount)
	bad.Checksum = "deadbeef"
	_, err = svc.ApplyPaymentEvent(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidChecksum)

	_, err = svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentApproved, amount+1))
	assert.ErrorIs(t, err, ErrAmountMismatch)

	_, err = svc.ApplyPaymentEvent(ctx, event(session.Reference, "REFUNDED", amount))
	assert.ErrorIs(t, err, ErrUnknownStatus)

	tx, err := svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentApproved, amount))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, tx.Status)
	assert.Equal(t, models.ChannelWeb, tx.Channel)

	again, err := svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentApproved, amount))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, again.Status)

	_, err = svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentDeclined, amount))
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestApplyPaymentEvent_ForeignReference(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.ApplyPaymentEvent(context.Background(), event("ORD-1-garbage", PaymentApproved, 100))
	assert.ErrorIs(t, err, ErrInvalidReference)

	ref, err := helpers.NewOrderReference(uuid.New(), "jwt-secret", time.Now())
	require.NoError(t, err)
	_, err = svc.ApplyPaymentEvent(context.Background(), event(ref, PaymentApproved, 100))
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestApplyPaymentEvent_FractionalFeeSettlesExactCents(t *testing.T) {
	svc, db, _ := setup(t)
	svc.settings.FeeBps = 250
	ticketType := models.TicketType{Name: "Palco", Price: 999, EventID: uuid.New()}
	require.NoError(t, db.Create(&ticketType).Error)
	ctx := context.Background()

	session, err := svc.Start(ctx, uuid.New(), ticketType.ID, 1)
	require.NoError(t, err)
	require.Equal(t, int64(102397), session.Totals.AmountInCents)

	var stored models.Transaction
	require.NoError(t, db.Table(models.ChannelWeb.Table()).Where("id = ?", session.TransactionID).Take(&stored).Error)
	require.NotNil(t, stored.AmountInCents)
	assert.Equal(t, int64(102397), stored.ChargedCents())
	assert.Equal(t, int64(1023), stored.Total)

	_, err = svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentApproved, 102300))
	assert.ErrorIs(t, err, ErrAmountMismatch)

	tx, err := svc.ApplyPaymentEvent(ctx, event(session.Reference, PaymentApproved, 102397))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, tx.Status)
}
