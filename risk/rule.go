package risk

import (
	"context"

	"github.com/bitmark-inc/triage-api/schema"
)

// Weights of each answer in the rule based score
type Weights struct {
	Symptoms map[schema.Symptom]float64
	Crushing float64
	Radiates float64
	Sweating float64
	Duration map[schema.Duration]float64

	// MediumAt and HighAt are the inclusive lower bounds of each tier
	MediumAt float64
	HighAt   float64
}

var DefaultWeights = Weights{
	Symptoms: map[schema.Symptom]float64{
		schema.SymptomChestPain:         3,
		schema.SymptomShortnessOfBreath: 2,
		schema.SymptomDizziness:         1,
	},
	Crushing: 2,
	Radiates: 2,
	Sweating: 2,
	Duration: map[schema.Duration]float64{
		schema.DurationLessThan15:     0,
		schema.DurationBetween15And60: 1,
		schema.DurationMoreThan60:     2,
	},
	MediumAt: 4,
	HighAt:   8,
}

// RuleClassifier scores a report deterministically from its answers
type RuleClassifier struct {
	weights Weights
}

func NewRuleClassifier(w Weights) *RuleClassifier {
	return &RuleClassifier{weights: w}
}

// Score sums the weights of the answers given in a report
func (c *RuleClassifier) Score(r schema.SymptomReport) float64 {
	w := c.weights
	score := w.Symptoms[r.MainSymptom] + w.Duration[r.Duration]
	if r.IsCrushing == schema.Yes {
		score += w.Crushing
	}
	if r.DoesRadiate == schema.Yes {
		score += w.Radiates
	}
	if r.IsSweating == schema.Yes {
		score += w.Sweating
	}
	return score
}

func (c *RuleClassifier) Classify(_ context.Context, r schema.SymptomReport, emergency bool) (schema.RiskTier, error) {
	if emergency {
		return schema.RiskHigh, nil
	}

	switch score := c.Score(r); {
	case score >= c.weights.HighAt:
		return schema.RiskHigh, nil
	case score >= c.weights.MediumAt:
		return schema.RiskMedium, nil
	default:
		return schema.RiskLow, nil
	}
}
