package reconcile

import (
	"context"
	"fmt"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QRIndex holds every fetched QR code and how many belong to each
// transaction.
type QRIndex struct {
	Codes         []models.QRCode
	Counts        map[uuid.UUID]int
	FailedBatches int
}

func (s *Service) indexQRCodes(ctx context.Context, transactionIDs []uuid.UUID) (*QRIndex, error) {
	index := &QRIndex{Counts: make(map[uuid.UUID]int)}
	seen := make(map[uuid.UUID]struct{})

	for n, batch := range chunk(transactionIDs, s.opts.BatchSize) {
		codes, err := s.store.QRCodesByTransactions(ctx, batch)
		if err != nil {
			if s.opts.Strict {
				return nil, fmt.Errorf("%w: qr codes batch %d: %w", ErrBatchFetch, n, err)
			}
			s.log.Warn("qr code batch failed, skipping",
				zap.Int("batch", n),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			index.FailedBatches++
			continue
		}

		for _, code := range codes {
			if _, dup := seen[code.ID]; dup {
				continue
			}
			seen[code.ID] = struct{}{}
			index.Codes = append(index.Codes, code)
			index.Counts[code.TransactionID]++
		}
	}

	return index, nil
}
