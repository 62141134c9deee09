// Package reconcile cross-checks issued QR codes against the paid
// transactions of an event's three sales channels and reports every
// transaction that owns fewer codes than it bought.
package reconcile

import (
	"context"
	"errors"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrChannelFetch = errors.New("channel fetch failed")
	ErrBatchFetch   = errors.New("batch fetch failed")
)

const (
	DefaultPageSize  = 1000
	DefaultBatchSize = 200
)

// Store is the read side of the backend the pipeline runs against.
type Store interface {
	TicketTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.TicketType, error)
	TransactionPage(ctx context.Context, channel models.Channel, ticketTypeIDs []uuid.UUID, offset, limit int) ([]models.Transaction, error)
	QRCodesByTransactions(ctx context.Context, transactionIDs []uuid.UUID) ([]models.QRCode, error)
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

type Options struct {
	// PageSize bounds each ledger range read.
	PageSize int
	// BatchSize bounds the id list of each IN lookup.
	BatchSize int
	// Strict aborts on the first failed sub-fetch instead of treating it
	// as empty.
	Strict bool
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

type Service struct {
	store Store
	log   *zap.Logger
	opts  Options
}

func NewService(store Store, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		log:   log.Named("reconcile"),
		opts:  opts.withDefaults(),
	}
}

// Reconcile runs the whole pipeline for one event. A fresh read happens on
// every call; nothing is cached between calls.
func (s *Service) Reconcile(ctx context.Context, eventID uuid.UUID) (*Report, error) {
	log := s.log.With(zap.String("event_id", eventID.String()))

	agg, err := s.Aggregate(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(agg.Transactions) == 0 {
		log.Info("no transactions to reconcile", zap.Int("ticket_types", len(agg.TicketTypes)))
		return emptyReport(agg), nil
	}

	index, err := s.indexQRCodes(ctx, agg.TransactionIDs())
	if err != nil {
		return nil, err
	}

	deficient, totals := FindDeficient(agg.Transactions, index.Counts)
	log.Info("qr reconciliation totals",
		zap.Int("transactions", len(agg.Transactions)),
		zap.Int("qualifying", totals.Qualifying),
		zap.Int("expected_qrs", totals.Expected),
		zap.Int("actual_qrs", totals.Actual),
		zap.Int("deficient", len(deficient)),
	)

	profiles, failedProfileBatches, err := s.resolveProfiles(ctx, index.Codes, deficient)
	if err != nil {
		return nil, err
	}

	report := format(agg, index, deficient, profiles)
	report.Summary.ExpectedQRs = totals.Expected
	report.Summary.ActualQRs = totals.Actual
	report.Summary.Qualifying = totals.Qualifying
	report.Summary.FailedBatches = index.FailedBatches + failedProfileBatches
	return report, nil
}
