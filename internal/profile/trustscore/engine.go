// Package trustscore derives a personal profile's trust score from its
// verification flags, references, rental history and completeness.
//
// Every function here is pure. The score is always re-derived from the full
// factor list (base 50, clamped to [0, 100]); it is never accumulated.
package trustscore

import (
	"fmt"
	"math"
	"strings"

	"rentwise/internal/profile/models"
	dErrors "rentwise/pkg/domain-errors"
)

// Computed factor types, in the order they appear in a calculated score.
const (
	FactorVerification  = "verification"
	FactorReferences    = "references"
	FactorRentalHistory = "rentalHistory"
	FactorEvictions     = "evictions"
	FactorCompleteness  = "completeness"
)

// Verification weights.
const (
	weightEmail           = 5
	weightPhone           = 5
	weightIdentity        = 10
	weightIncome          = 5
	weightBackgroundCheck = 10
	weightBusinessLicense = 10
	maxVerification       = 30
)

const (
	perReference     = 5
	maxReferences    = 15
	perRentalRecord  = 5
	maxRentalHistory = 15
	perEviction      = -15
	minEvictions     = -30
	maxCompleteness  = 10
)

// Bounds for externally supplied factor values.
const (
	MinFactorValue = -25
	MaxFactorValue = 25
)

const maxFactorTypeLen = 64

var computed = map[string]struct{}{
	FactorVerification:  {},
	FactorReferences:    {},
	FactorRentalHistory: {},
	FactorEvictions:     {},
	FactorCompleteness:  {},
}

// IsComputed reports whether factorType is derived by Calculate.
func IsComputed(factorType string) bool {
	_, ok := computed[factorType]
	return ok
}

// Calculate recomputes the score for a personal payload. Computed factors are
// replaced; externally upserted factors already on the payload are kept.
// Zero-valued computed factors are omitted.
func Calculate(p *models.PersonalPayload) models.TrustScore {
	factors := make([]models.Factor, 0, len(computed)+len(p.TrustScore.Factors))
	add := func(t string, v int) {
		if v != 0 {
			factors = append(factors, models.Factor{Type: t, Value: v})
		}
	}
	add(FactorVerification, verificationValue(p.Verification))
	add(FactorReferences, min(len(p.References)*perReference, maxReferences))
	add(FactorRentalHistory, rentalHistoryValue(p.RentalHistory))
	add(FactorEvictions, evictionsValue(p.RentalHistory))
	add(FactorCompleteness, completenessValue(p))

	for _, f := range p.TrustScore.Factors {
		if !IsComputed(f.Type) {
			factors = append(factors, models.Factor{Type: f.Type, Value: clampFactor(f.Value)})
		}
	}
	return models.TrustScore{Score: Derive(factors), Factors: factors}
}

// Upsert sets one named factor, replacing an existing entry of the same
// type, and re-derives the score. Calling it twice with the same arguments
// gives the same result as calling it once.
func Upsert(score models.TrustScore, factorType string, value int) (models.TrustScore, error) {
	factorType = strings.TrimSpace(factorType)
	if factorType == "" {
		return models.TrustScore{}, dErrors.New(dErrors.CodeValidation, "factor is required")
	}
	if len(factorType) > maxFactorTypeLen {
		return models.TrustScore{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("factor must be at most %d characters", maxFactorTypeLen))
	}
	value = clampFactor(value)

	next := score.Clone()
	replaced := false
	for i := range next.Factors {
		if next.Factors[i].Type == factorType {
			next.Factors[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		next.Factors = append(next.Factors, models.Factor{Type: factorType, Value: value})
	}
	next.Score = Derive(next.Factors)
	return next, nil
}

// Derive computes the aggregate score from a factor list.
func Derive(factors []models.Factor) int {
	total := models.BaseTrustScore
	for _, f := range factors {
		total += f.Value
	}
	return clamp(total, models.MinTrustScore, models.MaxTrustScore)
}

func verificationValue(v models.PersonalVerification) int {
	total := 0
	if v.Email {
		total += weightEmail
	}
	if v.Phone {
		total += weightPhone
	}
	if v.Identity {
		total += weightIdentity
	}
	if v.Income {
		total += weightIncome
	}
	if v.BackgroundCheck {
		total += weightBackgroundCheck
	}
	if v.BusinessLicense {
		total += weightBusinessLicense
	}
	return min(total, maxVerification)
}

func rentalHistoryValue(records []models.RentalRecord) int {
	total := 0
	for _, r := range records {
		if r.Complete() {
			total += perRentalRecord
		}
	}
	return min(total, maxRentalHistory)
}

func evictionsValue(records []models.RentalRecord) int {
	total := 0
	for _, r := range records {
		if r.Evicted {
			total += perEviction
		}
	}
	return max(total, minEvictions)
}

func completenessValue(p *models.PersonalPayload) int {
	filled, total := p.Completeness()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(maxCompleteness*filled) / float64(total)))
}

func clampFactor(v int) int {
	return clamp(v, MinFactorValue, MaxFactorValue)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
