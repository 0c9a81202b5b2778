package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/transaction"
)

func tx(amount float64, year int, month time.Month, day int) *transaction.Transaction {
	return &transaction.Transaction{
		Amount: amount,
		Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestMonthlySummary_Empty(t *testing.T) {
	buckets := transaction.MonthlySummary(nil)
	assert.Empty(t, buckets)
}

func TestMonthlySummary_Totals(t *testing.T) {
	buckets := transaction.MonthlySummary([]*transaction.Transaction{
		tx(1000, 2024, time.March, 1),
		tx(-250.50, 2024, time.March, 15),
		tx(-49.50, 2024, time.March, 20),
	})

	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, 2024, b.Year)
	assert.Equal(t, time.March, b.Month)
	assert.InDelta(t, 1000, b.Income, 1e-9)
	assert.InDelta(t, 300, b.Expenses, 1e-9)
	assert.InDelta(t, 700, b.Net, 1e-9)
	assert.Equal(t, "Mar 2024", b.Label())
}

// Same month number across years must come out in calendar order. Comparing
// display labels would put "Jan 2024" before "Mar 2023".
func TestMonthlySummary_ChronologicalAcrossYears(t *testing.T) {
	buckets := transaction.MonthlySummary([]*transaction.Transaction{
		tx(10, 2024, time.January, 5),
		tx(20, 2023, time.March, 5),
		tx(30, 2023, time.January, 5),
	})

	require.Len(t, buckets, 3)
	assert.Equal(t, "Jan 2023", buckets[0].Label())
	assert.Equal(t, "Mar 2023", buckets[1].Label())
	assert.Equal(t, "Jan 2024", buckets[2].Label())
}

func TestMonthlySummary_OrderIndependent(t *testing.T) {
	a := []*transaction.Transaction{
		tx(5, 2023, time.December, 1),
		tx(-3, 2024, time.January, 1),
		tx(7, 2023, time.November, 1),
	}
	b := []*transaction.Transaction{a[2], a[0], a[1]}

	assert.Equal(t, transaction.MonthlySummary(a), transaction.MonthlySummary(b))
}

func TestMonthlySummary_NetInvariant(t *testing.T) {
	buckets := transaction.MonthlySummary([]*transaction.Transaction{
		tx(100, 2024, time.May, 1),
		tx(-40, 2024, time.May, 2),
		tx(-200, 2024, time.June, 3),
		tx(9.99, 2024, time.June, 4),
	})

	for _, b := range buckets {
		assert.GreaterOrEqual(t, b.Income, 0.0)
		assert.GreaterOrEqual(t, b.Expenses, 0.0)
		assert.InDelta(t, b.Income-b.Expenses, b.Net, 1e-9)
	}
}
