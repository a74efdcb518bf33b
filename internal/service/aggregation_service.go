package service

import (
	"strings"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AggregationService partitions dated transactions into period totals.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// PeriodTotals holds the aggregated amounts for one period.
type PeriodTotals struct {
	Income           decimal.Decimal
	Expenses         decimal.Decimal
	CategorySpending map[string]decimal.Decimal
	Skipped          int
}

// AggregatePeriod filters transactions to the half-open interval
// [periodStart, periodEnd) and splits them into income, expenses, and
// per-category spending. Expenses and category amounts are reported as
// positive magnitudes. Expenses with a blank category count toward the
// expense total but are left out of the category map. Records with a
// zero date are skipped and counted, never fatal.
func (s *AggregationService) AggregatePeriod(transactions []*domain.Transaction, periodStart, periodEnd time.Time) *PeriodTotals {
	totals := &PeriodTotals{
		Income:           decimal.Zero,
		Expenses:         decimal.Zero,
		CategorySpending: make(map[string]decimal.Decimal),
	}

	for _, tx := range transactions {
		if tx == nil || tx.Date.IsZero() {
			totals.Skipped++
			continue
		}
		if tx.Date.Before(periodStart) || !tx.Date.Before(periodEnd) {
			continue
		}

		if tx.Amount.IsPositive() {
			totals.Income = totals.Income.Add(tx.Amount)
			continue
		}
		if tx.Amount.IsNegative() {
			magnitude := tx.Amount.Abs()
			totals.Expenses = totals.Expenses.Add(magnitude)

			category := strings.TrimSpace(tx.Category)
			if category != "" {
				totals.CategorySpending[category] = totals.CategorySpending[category].Add(magnitude)
			}
		}
		// Zero-amount records affect nothing.
	}

	if totals.Skipped > 0 {
		log.Debug().Int("skipped", totals.Skipped).Msg("Skipped malformed transactions during aggregation")
	}

	return totals
}
