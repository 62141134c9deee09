package reconcile

import (
	"sort"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
)

// Deficiency is a paid transaction with fewer QR codes than units bought.
type Deficiency struct {
	Transaction models.Transaction
	Expected    int
	Actual      int
	Missing     int
}

// Totals are the expected and issued code counts over every qualifying
// transaction, deficient or not.
type Totals struct {
	Qualifying int
	Expected   int
	Actual     int
}

// FindDeficient compares, for every transaction in StatusPaidWithQR, the
// codes it should own against counts. Other statuses are ignored. The result
// is ordered newest first, ties broken by id.
func FindDeficient(transactions []models.Transaction, counts map[uuid.UUID]int) ([]Deficiency, Totals) {
	var (
		deficient []Deficiency
		totals    Totals
	)

	for _, transaction := range transactions {
		if transaction.Status != models.StatusPaidWithQR {
			continue
		}

		expected := transaction.ExpectedQRCodes()
		actual := counts[transaction.ID]

		totals.Qualifying++
		totals.Expected += expected
		totals.Actual += actual

		if actual < expected {
			deficient = append(deficient, Deficiency{
				Transaction: transaction,
				Expected:    expected,
				Actual:      actual,
				Missing:     expected - actual,
			})
		}
	}

	sort.SliceStable(deficient, func(i, j int) bool {
		a, b := deficient[i].Transaction, deficient[j].Transaction
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return deficient, totals
}
