// Package detector clusters transaction histories into recurring-payment
// candidates and manages their confirmation lifecycle.
package detector

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/merchant"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/schedule"
	"fjacquet/recurpay/internal/scoring"
)

// Config holds the detection thresholds.
type Config struct {
	// MinOccurrences is the minimum number of transactions a group needs
	// to become a candidate. Values below 2 are raised to 2.
	MinOccurrences int

	// LookbackMonths bounds how far back transactions are considered,
	// in calendar months before the reference time.
	LookbackMonths int

	// TolerancePercent is the allowed deviation from the average amount,
	// in percent, when scoring amount consistency.
	TolerancePercent decimal.Decimal

	// ConfidenceThreshold drops candidates scoring below it.
	ConfidenceThreshold float64

	// DateVarianceDays drops groups whose gap standard deviation exceeds
	// it. Zero or negative disables the gate.
	DateVarianceDays float64

	// AutoConfirmThreshold and AutoConfirmMaxRisk gate automatic
	// confirmation of high-quality candidates.
	AutoConfirmThreshold float64
	AutoConfirmMaxRisk   float64
}

// DefaultConfig returns the detection thresholds used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		MinOccurrences:       3,
		LookbackMonths:       12,
		TolerancePercent:     decimal.NewFromInt(10),
		ConfidenceThreshold:  0.5,
		DateVarianceDays:     7,
		AutoConfirmThreshold: 0.8,
		AutoConfirmMaxRisk:   0.6,
	}
}

func (c Config) normalized() Config {
	if c.MinOccurrences < 2 {
		c.MinOccurrences = 2
	}
	if c.LookbackMonths < 1 {
		c.LookbackMonths = 1
	}
	if c.TolerancePercent.IsNegative() {
		c.TolerancePercent = decimal.Zero
	}
	return c
}

// groupKey identifies one candidate cluster. Grouping is per account so
// the same merchant billed to two accounts yields two candidates.
type groupKey struct {
	accountID string
	pattern   string
}

type occurrence struct {
	date   time.Time
	amount decimal.Decimal
}

// GroupTransactionsByPattern clusters transactions into recurring-payment
// candidates. Transactions older than the lookback window are ignored,
// descriptions are reduced to merchant patterns, and each (account,
// pattern) group is scored. Groups with too few occurrences, too much
// date variance, or confidence below the threshold are dropped.
//
// The function is pure and deterministic: the result is sorted by account
// then merchant pattern, and an empty input yields an empty slice. The
// grouping pass is a single scan over the input.
func GroupTransactionsByPattern(txs []models.Transaction, cfg Config, now time.Time) []models.TransactionPattern {
	cfg = cfg.normalized()
	windowStart := dateutils.MonthsBack(now, cfg.LookbackMonths)

	groups := make(map[groupKey][]occurrence)
	for _, tx := range txs {
		if tx.Date.Before(windowStart) {
			continue
		}
		pattern := merchant.ExtractPattern(tx.Description)
		if pattern == "" {
			continue
		}
		key := groupKey{accountID: tx.AccountID, pattern: pattern}
		groups[key] = append(groups[key], occurrence{date: tx.Date, amount: tx.Amount})
	}

	patterns := make([]models.TransactionPattern, 0, len(groups))
	for key, occurrences := range groups {
		if len(occurrences) < cfg.MinOccurrences {
			continue
		}
		if p, ok := buildPattern(key, occurrences, cfg); ok {
			patterns = append(patterns, p)
		}
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].AccountID != patterns[j].AccountID {
			return patterns[i].AccountID < patterns[j].AccountID
		}
		return patterns[i].MerchantPattern < patterns[j].MerchantPattern
	})
	return patterns
}

// buildPattern scores one group and reports whether it survives the
// variance and confidence gates.
func buildPattern(key groupKey, occurrences []occurrence, cfg Config) (models.TransactionPattern, bool) {
	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].date.Equal(occurrences[j].date) {
			return occurrences[i].date.Before(occurrences[j].date)
		}
		return occurrences[i].amount.LessThan(occurrences[j].amount)
	})

	dates := make([]time.Time, len(occurrences))
	amounts := make([]decimal.Decimal, len(occurrences))
	total := decimal.Zero
	for i, occ := range occurrences {
		dates[i] = occ.date
		amounts[i] = occ.amount
		total = total.Add(occ.amount)
	}

	analysis := schedule.Analyze(dates)
	if cfg.DateVarianceDays > 0 && analysis.GapStdDevDays > cfg.DateVarianceDays {
		return models.TransactionPattern{}, false
	}

	average := total.Div(decimal.NewFromInt(int64(len(amounts)))).Round(2)
	consistency := scoring.AmountConsistency(amounts, average, cfg.TolerancePercent)

	first := dates[0]
	last := dates[len(dates)-1]
	observationDays := dateutils.DaysBetween(first, last)

	confidence := scoring.PatternConfidence(scoring.ConfidenceInputs{
		AmountConsistency: consistency,
		DateRegularity:    analysis.Regularity,
		Occurrences:       len(occurrences),
		MinOccurrences:    cfg.MinOccurrences,
		ObservationDays:   observationDays,
	})
	if confidence < cfg.ConfidenceThreshold {
		return models.TransactionPattern{}, false
	}

	risk := scoring.RiskScore(scoring.RiskInputs{
		Confidence:      confidence,
		AverageAmount:   average,
		Occurrences:     len(occurrences),
		ObservationDays: observationDays,
	})

	return models.TransactionPattern{
		AccountID:         key.accountID,
		MerchantPattern:   key.pattern,
		Amounts:           amounts,
		Dates:             dates,
		Frequency:         analysis.Frequency,
		Regularity:        analysis.Regularity,
		AmountConsistency: consistency,
		Confidence:        confidence,
		Risk:              risk,
		AverageAmount:     average,
		FirstOccurrence:   first,
		LastOccurrence:    last,
		NextExpectedDate:  schedule.NextPaymentDate(last, analysis.Frequency),
	}, true
}
