package repository

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEvent(t *testing.T, db *gorm.DB) (models.User, models.TicketType) {
	t.Helper()

	user := models.User{Name: "Ana", Email: "ana@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	event := models.Event{Title: "Show", Description: "d", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), Location: "Bogota", UserID: user.ID}
	require.NoError(t, db.Create(&event).Error)
	ticketType := models.TicketType{Name: "VIP", Price: 100, EventID: event.ID}
	require.NoError(t, db.Create(&ticketType).Error)
	return user, ticketType
}

func createTx(t *testing.T, db *gorm.DB, channel models.Channel, tx models.Transaction) models.Transaction {
	t.Helper()
	require.NoError(t, db.Table(channel.Table()).Create(&tx).Error)
	return tx
}

func TestTransactionPage_PaginatesAndTagsChannel(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLedgerRepository(db)
	user, ticketType := seedEvent(t, db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTx(t, db, models.ChannelCash, models.Transaction{
			TicketTypeID: ticketType.ID, UserID: user.ID, Status: models.StatusPaid, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	createTx(t, db, models.ChannelCash, models.Transaction{TicketTypeID: uuid.New(), UserID: user.ID, Status: models.StatusPaid})

	first, err := repo.TransactionPage(ctx, models.ChannelCash, []uuid.UUID{ticketType.ID}, 0, 2)
	require.NoError(t, err)
	second, err := repo.TransactionPage(ctx, models.ChannelCash, []uuid.UUID{ticketType.ID}, 2, 2)
	require.NoError(t, err)
	third, err := repo.TransactionPage(ctx, models.ChannelCash, []uuid.UUID{ticketType.ID}, 4, 2)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Len(t, third, 1)
	assert.Equal(t, models.ChannelCash, third[0].Channel)
	assert.True(t, first[0].CreatedAt.Before(third[0].CreatedAt))

	other, err := repo.TransactionPage(ctx, models.ChannelApp, []uuid.UUID{ticketType.ID}, 0, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTransactionPage_RejectsUnknownChannel(t *testing.T) {
	repo := NewLedgerRepository(testutil.OpenDB(t))

	_, err := repo.TransactionPage(context.Background(), models.Channel("box"), []uuid.UUID{uuid.New()}, 0, 10)
	assert.Error(t, err)
}

func TestQRCodesAndProfiles(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLedgerRepository(db)
	user, ticketType := seedEvent(t, db)
	ctx := context.Background()

	tx := createTx(t, db, models.ChannelWeb, models.Transaction{TicketTypeID: ticketType.ID, UserID: user.ID, Status: models.StatusPaidWithQR})
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.QRCode{TransactionID: tx.ID, UserID: user.ID}).Error)
	}
	require.NoError(t, db.Create(&models.QRCode{TransactionID: uuid.New(), UserID: user.ID}).Error)

	codes, err := repo.QRCodesByTransactions(ctx, []uuid.UUID{tx.ID})
	require.NoError(t, err)
	assert.Len(t, codes, 2)

	profiles, err := repo.ProfilesByIDs(ctx, []uuid.UUID{user.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, models.Profile{ID: user.ID, Name: "Ana", Email: "ana@example.com"}, profiles[0])
}

func TestFindTransactionAndReferenced(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLedgerRepository(db)
	user, ticketType := seedEvent(t, db)
	ctx := context.Background()

	referenced, err := repo.TicketTypeReferenced(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	tx := createTx(t, db, models.ChannelApp, models.Transaction{TicketTypeID: ticketType.ID, UserID: user.ID})

	found, err := repo.FindTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelApp, found.Channel)
	assert.Equal(t, models.StatusPending, found.Status)

	_, err = repo.FindTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	referenced, err = repo.TicketTypeReferenced(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.True(t, referenced)
}
