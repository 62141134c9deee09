package reconcile

import (
	"sort"
	"time"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
)

type Report struct {
	QRCodes []QRCodeEntry  `json:"qr_codes"`
	Missing []MissingEntry `json:"missing_qr_transactions"`
	Summary Summary        `json:"summary"`
}

type QRCodeEntry struct {
	ID              uuid.UUID      `json:"id"`
	OrderReference  uuid.UUID      `json:"order_reference"`
	Channel         models.Channel `json:"channel"`
	TicketName      string         `json:"ticket_name"`
	BuyerName       string         `json:"buyer_name"`
	BuyerEmail      string         `json:"buyer_email"`
	Scanned         bool           `json:"scanned"`
	ScannerName     string         `json:"scanner_name,omitempty"`
	ScannerEmail    string         `json:"scanner_email,omitempty"`
	AppleWalletURL  *string        `json:"apple_wallet_url,omitempty"`
	GoogleWalletURL *string        `json:"google_wallet_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

type MissingEntry struct {
	TransactionID uuid.UUID      `json:"transaction_id"`
	Channel       models.Channel `json:"channel"`
	TicketName    string         `json:"ticket_name"`
	BuyerName     string         `json:"buyer_name"`
	BuyerEmail    string         `json:"buyer_email"`
	Status        string         `json:"status"`
	Quantity      int            `json:"quantity"`
	Total         int64          `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
	ActualQRs     int            `json:"actual_qrs"`
	MissingQRs    int            `json:"missing_qrs"`
}

type Summary struct {
	Transactions   int              `json:"transactions"`
	Qualifying     int              `json:"qualifying"`
	ExpectedQRs    int              `json:"expected_qrs"`
	ActualQRs      int              `json:"actual_qrs"`
	FailedChannels []models.Channel `json:"failed_channels"`
	FailedBatches  int              `json:"failed_batches"`
}

func emptyReport(agg *Aggregate) *Report {
	return &Report{
		QRCodes: []QRCodeEntry{},
		Missing: []MissingEntry{},
		Summary: Summary{FailedChannels: failedChannels(agg)},
	}
}

func failedChannels(agg *Aggregate) []models.Channel {
	if agg.FailedChannels == nil {
		return []models.Channel{}
	}
	return agg.FailedChannels
}

func format(agg *Aggregate, index *QRIndex, deficient []Deficiency, profiles profileSet) *Report {
	byID := make(map[uuid.UUID]models.Transaction, len(agg.Transactions))
	for _, transaction := range agg.Transactions {
		byID[transaction.ID] = transaction
	}

	report := &Report{
		QRCodes: make([]QRCodeEntry, 0, len(index.Codes)),
		Missing: make([]MissingEntry, 0, len(deficient)),
		Summary: Summary{
			Transactions:   len(agg.Transactions),
			FailedChannels: failedChannels(agg),
		},
	}

	for _, code := range index.Codes {
		transaction := byID[code.TransactionID]
		buyer := profiles.lookup(code.UserID)
		entry := QRCodeEntry{
			ID:              code.ID,
			OrderReference:  code.TransactionID,
			Channel:         transaction.Channel,
			TicketName:      agg.TicketName(transaction.TicketTypeID),
			BuyerName:       buyer.Name,
			BuyerEmail:      buyer.Email,
			Scanned:         code.Scanned,
			AppleWalletURL:  code.AppleWalletURL,
			GoogleWalletURL: code.GoogleWalletURL,
			CreatedAt:       code.CreatedAt,
		}
		if code.ScannerID != nil {
			scanner := profiles.lookup(*code.ScannerID)
			entry.ScannerName = scanner.Name
			entry.ScannerEmail = scanner.Email
		}
		report.QRCodes = append(report.QRCodes, entry)
	}
	sort.SliceStable(report.QRCodes, func(i, j int) bool {
		a, b := report.QRCodes[i], report.QRCodes[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	for _, d := range deficient {
		buyer := profiles.lookup(d.Transaction.UserID)
		report.Missing = append(report.Missing, MissingEntry{
			TransactionID: d.Transaction.ID,
			Channel:       d.Transaction.Channel,
			TicketName:    agg.TicketName(d.Transaction.TicketTypeID),
			BuyerName:     buyer.Name,
			BuyerEmail:    buyer.Email,
			Status:        d.Transaction.Status,
			Quantity:      d.Expected,
			Total:         d.Transaction.Total,
			CreatedAt:     d.Transaction.CreatedAt,
			ActualQRs:     d.Actual,
			MissingQRs:    d.Missing,
		})
	}

	return report
}
