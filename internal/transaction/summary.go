package transaction

import (
	"sort"
	"time"
)

// MonthBucket aggregates one calendar month of transactions.
type MonthBucket struct {
	Year     int
	Month    time.Month
	Income   float64
	Expenses float64
	Net      float64
}

// Label renders the bucket for display, e.g. "Mar 2024".
func (b MonthBucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// MonthlySummary groups transactions into per-month buckets of income, expense
// and net totals. Income sums the positive amounts, Expenses sums the absolute
// values of the negative ones, Net is their difference.
//
// Buckets come back in calendar order regardless of input order. The sort key
// is the numeric (year, month) pair, not the display label; label ordering
// breaks across year boundaries ("Jan 2024" < "Mar 2023" lexically).
func MonthlySummary(txs []*Transaction) []MonthBucket {
	type monthKey struct {
		year  int
		month time.Month
	}

	byMonth := make(map[monthKey]*MonthBucket)

	for _, tx := range txs {
		k := monthKey{year: tx.Date.Year(), month: tx.Date.Month()}

		b, ok := byMonth[k]
		if !ok {
			b = &MonthBucket{Year: k.year, Month: k.month}
			byMonth[k] = b
		}

		if tx.Amount > 0 {
			b.Income += tx.Amount
		} else {
			b.Expenses += -tx.Amount
		}

		b.Net = b.Income - b.Expenses
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}

		return buckets[i].Month < buckets[j].Month
	})

	return buckets
}
