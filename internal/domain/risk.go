package domain

import "fmt"

// RiskLevel is the coarse label attached to a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
)

// RiskAssessment is a derived, per-request score for a location.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Score   int       `json:"score"`
	Factors []string  `json:"factors"`
}

// Assess scores nearby seismic activity. The formula is a frozen product
// contract and must not be tuned:
//
//	score = 2*nearby50km
//	      + 10 if nearby250km > 10
//	      + 15 if maxNearby >= 4
//	      + 25 if maxNearby >= 5
//	      +  5 if nearby500km > 5
//
// Levels: score >= 50 high, >= 25 elevated, >= 10 moderate, otherwise low.
// Factors lists one line per contributing term, in formula order.
func Assess(nearby50km, nearby250km, nearby500km int, maxNearby float64) RiskAssessment {
	score := 0
	factors := []string{}

	if nearby50km > 0 {
		score += 2 * nearby50km
		factors = append(factors, fmt.Sprintf("%d earthquakes within 50 km (+%d)", nearby50km, 2*nearby50km))
	}
	if nearby250km > 10 {
		score += 10
		factors = append(factors, fmt.Sprintf("%d earthquakes within 250 km, more than 10 (+10)", nearby250km))
	}
	if maxNearby >= 4 {
		score += 15
		factors = append(factors, fmt.Sprintf("nearby M%.1f at or above M4.0 (+15)", maxNearby))
	}
	if maxNearby >= 5 {
		score += 25
		factors = append(factors, fmt.Sprintf("nearby M%.1f at or above M5.0 (+25)", maxNearby))
	}
	if nearby500km > 5 {
		score += 5
		factors = append(factors, fmt.Sprintf("%d earthquakes within 500 km, more than 5 (+5)", nearby500km))
	}

	return RiskAssessment{Level: riskLevel(score), Score: score, Factors: factors}
}

func riskLevel(score int) RiskLevel {
	switch {
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskElevated
	case score >= 10:
		return RiskModerate
	default:
		return RiskLow
	}
}
