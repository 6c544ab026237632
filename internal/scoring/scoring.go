// Package scoring contains the pure scoring functions of the detection
// engine: amount consistency, pattern confidence, and payment risk.
// Monetary comparisons stay in decimal; float64 appears only in the
// dimensionless scores themselves.
package scoring

import (
	"github.com/shopspring/decimal"
)

// Confidence weights. The weighting is internal and tunable; what callers
// rely on is that confidence is monotone in each input and lands in [0,1],
// with an established-pattern example (0.9 consistency, 0.8 regularity,
// 6 occurrences over 180 days) scoring well above 0.5.
const (
	weightAmountConsistency = 0.40
	weightDateRegularity    = 0.40
	weightOccurrences       = 0.20

	// spanBonusShare is the fraction of remaining headroom granted for a
	// long observation window, saturating around one year.
	spanBonusShare     = 0.25
	spanSaturationDays = 365.0
)

// Risk weights. Risk grows with low confidence, large amounts (saturating
// at the high-amount mark), few occurrences, and short observation windows.
const (
	weightRiskConfidence = 0.35
	weightRiskAmount     = 0.25
	weightRiskScarcity   = 0.20
	weightRiskWindow     = 0.20

	scarcitySaturation = 7.0
	windowFullDays     = 365.0
)

// highAmountMark is the absolute amount at which the amount contribution
// to risk saturates.
var highAmountMark = decimal.NewFromInt(10000)

// AmountConsistency returns the fraction of amounts lying within
// tolerancePercent of the average. The comparison is exact decimal
// arithmetic; nothing is rounded through float. An empty slice scores 0.
// A zero average admits only amounts that are exactly zero.
func AmountConsistency(amounts []decimal.Decimal, average decimal.Decimal, tolerancePercent decimal.Decimal) float64 {
	if len(amounts) == 0 {
		return 0
	}

	tolerance := average.Abs().Mul(tolerancePercent).Div(decimal.NewFromInt(100))

	within := 0
	for _, amount := range amounts {
		if amount.Sub(average).Abs().Cmp(tolerance) <= 0 {
			within++
		}
	}
	return float64(within) / float64(len(amounts))
}

// ConfidenceInputs are the signals feeding the composite confidence score.
type ConfidenceInputs struct {
	AmountConsistency float64
	DateRegularity    float64
	Occurrences       int
	MinOccurrences    int
	ObservationDays   int
}

// PatternConfidence combines amount consistency, date regularity,
// occurrence count, and observation span into a single [0,1] score.
// It is monotone non-decreasing in every input.
func PatternConfidence(in ConfidenceInputs) float64 {
	minOcc := in.MinOccurrences
	if minOcc < 1 {
		minOcc = 1
	}

	occurrenceRatio := clamp(float64(in.Occurrences)/float64(minOcc), 0, 1)

	base := weightAmountConsistency*clamp(in.AmountConsistency, 0, 1) +
		weightDateRegularity*clamp(in.DateRegularity, 0, 1) +
		weightOccurrences*occurrenceRatio

	span := float64(in.ObservationDays)
	if span < 0 {
		span = 0
	}
	spanTerm := span / (span + spanSaturationDays)

	return clamp(base+(1-base)*spanBonusShare*spanTerm, 0, 1)
}

// RiskInputs are the signals feeding the risk score.
type RiskInputs struct {
	Confidence      float64
	AverageAmount   decimal.Decimal
	Occurrences     int
	ObservationDays int
}

// RiskScore rates how risky it would be to rely on a detected pattern,
// from 0 (safe) to 1 (risky). Low confidence, high amounts, few
// occurrences, and a short observation window all push risk up.
func RiskScore(in RiskInputs) float64 {
	confidenceTerm := 1 - clamp(in.Confidence, 0, 1)

	// Amount ratio is formed in decimal before the one conversion to float.
	amountRatio := in.AverageAmount.Abs().Div(highAmountMark)
	amountTerm := 1.0
	if amountRatio.Cmp(decimal.NewFromInt(1)) < 0 {
		amountTerm, _ = amountRatio.Float64()
	}

	scarcityTerm := clamp(1-float64(in.Occurrences-1)/scarcitySaturation, 0, 1)

	window := float64(in.ObservationDays)
	if window < 0 {
		window = 0
	}
	windowTerm := 1 - min(window/windowFullDays, 1)

	risk := weightRiskConfidence*confidenceTerm +
		weightRiskAmount*amountTerm +
		weightRiskScarcity*scarcityTerm +
		weightRiskWindow*windowTerm
	return clamp(risk, 0, 1)
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
