package reconcile

import (
	"testing"

	"github.com/farellandr/boxoffice/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFindDeficient(t *testing.T) {
	paid := func(qty *int) models.Transaction {
		return models.Transaction{ID: uuid.New(), Status: models.StatusPaidWithQR, Quantity: qty}
	}
	full := paid(intPtr(2))
	short := paid(intPtr(5))
	pending := models.Transaction{ID: uuid.New(), Status: models.StatusPending, Quantity: intPtr(3)}

	counts := map[uuid.UUID]int{full.ID: 2, short.ID: 1}
	deficient, totals := FindDeficient([]models.Transaction{full, short, pending}, counts)

	assert.Len(t, deficient, 1)
	assert.Equal(t, short.ID, deficient[0].Transaction.ID)
	assert.Equal(t, 4, deficient[0].Missing)
	assert.Equal(t, Totals{Qualifying: 2, Expected: 7, Actual: 3}, totals)
}

func TestFindDeficient_OverIssuedIsNotDeficient(t *testing.T) {
	tx := models.Transaction{ID: uuid.New(), Status: models.StatusPaidWithQR, Quantity: intPtr(1)}

	deficient, totals := FindDeficient([]models.Transaction{tx}, map[uuid.UUID]int{tx.ID: 3})

	assert.Empty(t, deficient)
	assert.Equal(t, 3, totals.Actual)
}

func TestChunk(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5}

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunk(ids, 2))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, chunk(ids, 10))
	assert.Nil(t, chunk([]int{}, 3))
}
