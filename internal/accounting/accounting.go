// Package accounting rolls an event's paid transactions up per channel and
// per ticket type.
package accounting

import (
	"context"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/reconcile"
	"github.com/google/uuid"
)

// Line is the paid activity of one channel or of the whole event.
type Line struct {
	Transactions int   `json:"transactions"`
	Units        int   `json:"units"`
	Gross        int64 `json:"gross"`
}

// TicketTypeLine is the paid activity of one ticket type. Names are not
// unique, so lines are keyed by ticket type id.
type TicketTypeLine struct {
	Name string `json:"name"`
	Line
}

type Rollup struct {
	EventID        uuid.UUID                    `json:"event_id"`
	Channels       map[models.Channel]Line      `json:"channels"`
	TicketTypes    map[uuid.UUID]TicketTypeLine `json:"ticket_types"`
	Total          Line                         `json:"total"`
	FailedChannels []models.Channel             `json:"failed_channels"`
}

// Aggregator is satisfied by *reconcile.Service.
type Aggregator interface {
	Aggregate(ctx context.Context, eventID uuid.UUID) (*reconcile.Aggregate, error)
}

func paid(status string) bool {
	return status == models.StatusPaid || status == models.StatusPaidWithQR
}

// Summarize sums the event's paid transactions per channel, per ticket type
// and overall.
func Summarize(ctx context.Context, aggregator Aggregator, eventID uuid.UUID) (*Rollup, error) {
	agg, err := aggregator.Aggregate(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rollup := &Rollup{
		EventID:        eventID,
		Channels:       make(map[models.Channel]Line, len(models.Channels)),
		TicketTypes:    make(map[uuid.UUID]TicketTypeLine),
		FailedChannels: agg.FailedChannels,
	}
	if rollup.FailedChannels == nil {
		rollup.FailedChannels = []models.Channel{}
	}
	for _, channel := range models.Channels {
		rollup.Channels[channel] = Line{}
	}

	for _, transaction := range agg.Transactions {
		if !paid(transaction.Status) {
			continue
		}
		units := transaction.ExpectedQRCodes()

		rollup.Channels[transaction.Channel] = rollup.Channels[transaction.Channel].add(units, transaction.Total)
		ticketType, ok := rollup.TicketTypes[transaction.TicketTypeID]
		if !ok {
			ticketType.Name = agg.TicketName(transaction.TicketTypeID)
		}
		ticketType.Line = ticketType.Line.add(units, transaction.Total)
		rollup.TicketTypes[transaction.TicketTypeID] = ticketType
		rollup.Total = rollup.Total.add(units, transaction.Total)
	}

	return rollup, nil
}

func (l Line) add(units int, gross int64) Line {
	l.Transactions++
	l.Units += units
	l.Gross += gross
	return l
}
