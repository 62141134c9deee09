package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
)

var errBackend = errors.New("backend unavailable")

// fakeStore is an in-memory Store that honours range pagination and IN
// batching the way the database does.
type fakeStore struct {
	mu sync.Mutex

	ticketTypes  []models.TicketType
	ledgers      map[models.Channel][]models.Transaction
	codes        []models.QRCode
	profiles     map[uuid.UUID]models.Profile
	channelErr   map[models.Channel]error
	ticketErr    error
	qrErr        error
	profileErr   error
	pageCalls    map[models.Channel]int
	maxBatchSeen int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ledgers:    make(map[models.Channel][]models.Transaction),
		profiles:   make(map[uuid.UUID]models.Profile),
		channelErr: make(map[models.Channel]error),
		pageCalls:  make(map[models.Channel]int),
	}
}

func (f *fakeStore) TicketTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.TicketType, error) {
	if f.ticketErr != nil {
		return nil, f.ticketErr
	}
	var out []models.TicketType
	for _, tt := range f.ticketTypes {
		if tt.EventID == eventID {
			out = append(out, tt)
		}
	}
	return out, nil
}

func (f *fakeStore) TransactionPage(ctx context.Context, channel models.Channel, ticketTypeIDs []uuid.UUID, offset, limit int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls[channel]++
	if err := f.channelErr[channel]; err != nil {
		return nil, err
	}

	allowed := make(map[uuid.UUID]bool, len(ticketTypeIDs))
	for _, id := range ticketTypeIDs {
		allowed[id] = true
	}
	var matching []models.Transaction
	for _, tx := range f.ledgers[channel] {
		if allowed[tx.TicketTypeID] {
			matching = append(matching, tx)
		}
	}
	if offset >= len(matching) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return append([]models.Transaction(nil), matching[offset:end]...), nil
}

func (f *fakeStore) QRCodesByTransactions(ctx context.Context, transactionIDs []uuid.UUID) ([]models.QRCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(transactionIDs) > f.maxBatchSeen {
		f.maxBatchSeen = len(transactionIDs)
	}
	if f.qrErr != nil {
		return nil, f.qrErr
	}
	want := make(map[uuid.UUID]bool, len(transactionIDs))
	for _, id := range transactionIDs {
		want[id] = true
	}
	var out []models.QRCode
	for _, code := range f.codes {
		if want[code.TransactionID] {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeStore) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(ids) > f.maxBatchSeen {
		f.maxBatchSeen = len(ids)
	}
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	var out []models.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func intPtr(n int) *int { return &n }
