// Package schedule analyzes the timing of transaction series and projects
// future payment dates. All functions are pure; "now" never enters here.
package schedule

import (
	"math"
	"sort"
	"time"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/models"
)

// Analysis describes the cadence observed in a series of dates.
type Analysis struct {
	Frequency     models.Frequency
	Regularity    float64
	MeanGapDays   float64
	GapStdDevDays float64
}

// Analyze determines the closest payment frequency for a series of dates
// and how regular the gaps between them are. Regularity is 1 minus the
// coefficient of variation of the gaps, clamped to [0,1]. Fewer than two
// dates yield the non-committal default: monthly with zero regularity.
func Analyze(dates []time.Time) Analysis {
	if len(dates) < 2 {
		return Analysis{Frequency: models.FrequencyMonthly}
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, float64(dateutils.DaysBetween(sorted[i-1], sorted[i])))
	}

	mean := meanOf(gaps)
	stdDev := stdDevOf(gaps, mean)

	analysis := Analysis{
		Frequency:     closestFrequency(mean),
		MeanGapDays:   mean,
		GapStdDevDays: stdDev,
	}

	// Zero mean gap means duplicate dates; regularity stays 0 rather than
	// dividing by zero.
	if mean > 0 {
		cv := stdDev / mean
		analysis.Regularity = clamp(1-cv, 0, 1)
	}
	return analysis
}

// NextPaymentDate projects the next expected payment date after from.
// Weekly advances seven days; month-based frequencies advance by calendar
// months with the day clamped to the target month's end, so a payment on
// Jan 31 projects to Feb 28 rather than spilling into March. The result
// is always a valid calendar date strictly after from.
func NextPaymentDate(from time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyMonthly, models.FrequencyQuarterly, models.FrequencyYearly:
		return dateutils.AddMonthsClamped(from, f.Months())
	default:
		return dateutils.AddMonthsClamped(from, 1)
	}
}

// closestFrequency picks the frequency whose nominal cycle length is
// nearest to the observed mean gap. Ties go to the shorter cycle.
func closestFrequency(meanGapDays float64) models.Frequency {
	best := models.Frequencies[0]
	bestDist := math.Abs(meanGapDays - float64(best.Days()))
	for _, f := range models.Frequencies[1:] {
		if dist := math.Abs(meanGapDays - float64(f.Days())); dist < bestDist {
			best = f
			bestDist = dist
		}
	}
	return best
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDevOf returns the population standard deviation.
func stdDevOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
