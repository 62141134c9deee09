package accounting

import (
	"context"
	"errors"
	"testing"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/reconcile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct {
	agg *reconcile.Aggregate
	err error
}

func (s stubAggregator) Aggregate(ctx context.Context, eventID uuid.UUID) (*reconcile.Aggregate, error) {
	return s.agg, s.err
}

func qty(n int) *int { return &n }

func TestSummarize(t *testing.T) {
	eventID := uuid.New()
	general := models.TicketType{ID: uuid.New(), Name: "General"}
	vip := models.TicketType{ID: uuid.New(), Name: "VIP"}
	agg := &reconcile.Aggregate{
		EventID:     eventID,
		TicketTypes: map[uuid.UUID]models.TicketType{general.ID: general, vip.ID: vip},
		Transactions: []models.Transaction{
			{TicketTypeID: general.ID, Status: models.StatusPaidWithQR, Quantity: qty(2), Total: 100, Channel: models.ChannelApp},
			{TicketTypeID: general.ID, Status: models.StatusPaid, Quantity: qty(1), Total: 50, Channel: models.ChannelWeb},
			{TicketTypeID: vip.ID, Status: models.StatusPaidWithQR, Quantity: nil, Total: 300, Channel: models.ChannelCash},
			{TicketTypeID: vip.ID, Status: models.StatusPending, Quantity: qty(4), Total: 1200, Channel: models.ChannelWeb},
			{TicketTypeID: vip.ID, Status: models.StatusDeclined, Quantity: qty(1), Total: 300, Channel: models.ChannelApp},
		},
	}

	rollup, err := Summarize(context.Background(), stubAggregator{agg: agg}, eventID)
	require.NoError(t, err)

	assert.Equal(t, Line{Transactions: 1, Units: 2, Gross: 100}, rollup.Channels[models.ChannelApp])
	assert.Equal(t, Line{Transactions: 1, Units: 1, Gross: 50}, rollup.Channels[models.ChannelWeb])
	assert.Equal(t, Line{Transactions: 1, Units: 1, Gross: 300}, rollup.Channels[models.ChannelCash])
	assert.Equal(t, TicketTypeLine{Name: "General", Line: Line{Transactions: 2, Units: 3, Gross: 150}}, rollup.TicketTypes[general.ID])
	assert.Equal(t, TicketTypeLine{Name: "VIP", Line: Line{Transactions: 1, Units: 1, Gross: 300}}, rollup.TicketTypes[vip.ID])
	assert.Equal(t, Line{Transactions: 3, Units: 4, Gross: 450}, rollup.Total)
	assert.Empty(t, rollup.FailedChannels)
}

func TestSummarize_TicketTypesSharingANameStaySeparate(t *testing.T) {
	eventID := uuid.New()
	floor := models.TicketType{ID: uuid.New(), Name: "General", Price: 50}
	balcony := models.TicketType{ID: uuid.New(), Name: "General", Price: 500}
	orphanA, orphanB := uuid.New(), uuid.New()
	agg := &reconcile.Aggregate{
		EventID:     eventID,
		TicketTypes: map[uuid.UUID]models.TicketType{floor.ID: floor, balcony.ID: balcony},
		Transactions: []models.Transaction{
			{TicketTypeID: floor.ID, Status: models.StatusPaid, Quantity: qty(1), Total: 50, Channel: models.ChannelWeb},
			{TicketTypeID: balcony.ID, Status: models.StatusPaid, Quantity: qty(1), Total: 500, Channel: models.ChannelApp},
			{TicketTypeID: orphanA, Status: models.StatusPaid, Quantity: qty(1), Total: 10, Channel: models.ChannelCash},
			{TicketTypeID: orphanB, Status: models.StatusPaid, Quantity: qty(2), Total: 20, Channel: models.ChannelCash},
		},
	}

	rollup, err := Summarize(context.Background(), stubAggregator{agg: agg}, eventID)
	require.NoError(t, err)

	require.Len(t, rollup.TicketTypes, 4)
	assert.Equal(t, TicketTypeLine{Name: "General", Line: Line{Transactions: 1, Units: 1, Gross: 50}}, rollup.TicketTypes[floor.ID])
	assert.Equal(t, TicketTypeLine{Name: "General", Line: Line{Transactions: 1, Units: 1, Gross: 500}}, rollup.TicketTypes[balcony.ID])
	assert.Equal(t, TicketTypeLine{Name: "Unknown", Line: Line{Transactions: 1, Units: 1, Gross: 10}}, rollup.TicketTypes[orphanA])
	assert.Equal(t, TicketTypeLine{Name: "Unknown", Line: Line{Transactions: 1, Units: 2, Gross: 20}}, rollup.TicketTypes[orphanB])
	assert.Equal(t, Line{Transactions: 4, Units: 5, Gross: 580}, rollup.Total)
}

func TestSummarize_EmptyEventHasZeroLines(t *testing.T) {
	rollup, err := Summarize(context.Background(), stubAggregator{agg: &reconcile.Aggregate{}}, uuid.New())
	require.NoError(t, err)

	assert.Len(t, rollup.Channels, 3)
	assert.Equal(t, Line{}, rollup.Total)
}

func TestSummarize_PropagatesError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Summarize(context.Background(), stubAggregator{err: boom}, uuid.New())
	assert.ErrorIs(t, err, boom)
}
