// Package pricing turns a rental period and a daily rate into a price.
//
// A started day counts as a full day: 25 hours bill two days. The result is
// rounded to the currency minor unit.
package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	msPerDay      = int64(24 * time.Hour / time.Millisecond)
	currencyScale = 2
)

type Quote struct {
	DaysRented  int
	DailyRate   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Valid is false for empty periods, which must never be persisted.
func (q Quote) Valid() bool {
	return q.DaysRented > 0
}

// Days returns ceil(|end - start| / 24h) at millisecond precision.
func Days(start, end time.Time) int {
	diff := end.UnixMilli() - start.UnixMilli()
	if diff < 0 {
		diff = -diff
	}

	return int(math.Ceil(float64(diff) / float64(msPerDay)))
}

func Calculate(start, end time.Time, dailyRate decimal.Decimal) Quote {
	days := Days(start, end)
	if days <= 0 {
		return Quote{DailyRate: dailyRate, TotalAmount: decimal.Zero}
	}

	return Quote{
		DaysRented:  days,
		DailyRate:   dailyRate,
		TotalAmount: dailyRate.Mul(decimal.NewFromInt(int64(days))).Round(currencyScale),
	}
}
