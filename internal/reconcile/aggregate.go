package reconcile

import (
	"context"
	"fmt"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregate is every transaction of an event merged across channels.
type Aggregate struct {
	EventID        uuid.UUID
	TicketTypes    map[uuid.UUID]models.TicketType
	Transactions   []models.Transaction
	FailedChannels []models.Channel
}

func (a *Aggregate) TransactionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.Transactions))
	for i, transaction := range a.Transactions {
		ids[i] = transaction.ID
	}
	return ids
}

func (a *Aggregate) TicketName(ticketTypeID uuid.UUID) string {
	if ticketType, ok := a.TicketTypes[ticketTypeID]; ok {
		return ticketType.Name
	}
	return unknownName
}

// Aggregate reads the event's ticket types and the matching rows of all
// three ledgers. Channels are read concurrently, pages within a channel in
// sequence. A failed channel contributes nothing and is listed in
// FailedChannels, unless the service is strict, in which case the error is
// returned.
func (s *Service) Aggregate(ctx context.Context, eventID uuid.UUID) (*Aggregate, error) {
	ticketTypes, err := s.store.TicketTypesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load ticket types: %w", err)
	}

	agg := &Aggregate{
		EventID:     eventID,
		TicketTypes: make(map[uuid.UUID]models.TicketType, len(ticketTypes)),
	}
	if len(ticketTypes) == 0 {
		return agg, nil
	}

	ticketTypeIDs := make([]uuid.UUID, 0, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		agg.TicketTypes[ticketType.ID] = ticketType
		ticketTypeIDs = append(ticketTypeIDs, ticketType.ID)
	}

	perChannel := make([][]models.Transaction, len(models.Channels))
	failed := make([]bool, len(models.Channels))

	g, gctx := errgroup.WithContext(ctx)
	for i, channel := range models.Channels {
		g.Go(func() error {
			rows, err := s.readChannel(gctx, channel, ticketTypeIDs)
			if err != nil {
				if s.opts.Strict {
					return fmt.Errorf("%w: %s: %w", ErrChannelFetch, channel, err)
				}
				s.log.Warn("channel fetch failed, treating as empty",
					zap.String("event_id", eventID.String()),
					zap.String("channel", string(channel)),
					zap.Error(err),
				)
				failed[i] = true
				return nil
			}
			perChannel[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[models.Channel]map[uuid.UUID]struct{}, len(models.Channels))
	for i, channel := range models.Channels {
		if failed[i] {
			agg.FailedChannels = append(agg.FailedChannels, channel)
			continue
		}
		seen[channel] = make(map[uuid.UUID]struct{}, len(perChannel[i]))
		for _, transaction := range perChannel[i] {
			if _, dup := seen[channel][transaction.ID]; dup {
				continue
			}
			seen[channel][transaction.ID] = struct{}{}
			transaction.Channel = channel
			agg.Transactions = append(agg.Transactions, transaction)
		}
	}

	return agg, nil
}

func (s *Service) readChannel(ctx context.Context, channel models.Channel, ticketTypeIDs []uuid.UUID) ([]models.Transaction, error) {
	var rows []models.Transaction
	for offset := 0; ; offset += s.opts.PageSize {
		page, err := s.store.TransactionPage(ctx, channel, ticketTypeIDs, offset, s.opts.PageSize)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if len(page) < s.opts.PageSize {
			return rows, nil
		}
	}
}
