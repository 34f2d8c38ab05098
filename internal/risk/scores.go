package risk

import (
	"math"

	"github.com/tessfin/paylater/internal/ledger"
)

// Scores holds the two competing model outputs, rounded to 2 decimals.
// Neither formula clamps to [0,100]; out-of-range scores are a
// data-quality signal the anomaly engine flags, not something the
// formulas correct.
type Scores struct {
	Champion   float64 `json:"champion"`
	Challenger float64 `json:"challenger"`
}

// Scoring weights. Both models start from 100 and subtract penalties.
const (
	championUtilizationWeight = 50
	championDefaultPenalty    = 30
	championUnverifiedPenalty = 10

	challengerUtilizationWeight = 40
	challengerDefaultPenalty    = 40
	challengerUnverifiedPenalty = 10
	challengerVelocityPenalty   = 10
	challengerVelocityWindow    = 30
	challengerVelocityLimit     = 5
)

// Scores evaluates both models for the named user.
func (e *Engine) Scores(name string) Scores {
	utilization := e.Utilization(name)
	defaulted := e.InDefault(name)
	verified := e.IncomeStatus(name) == ledger.StatusVerified
	velocity := e.Velocity(name, challengerVelocityWindow)

	champion := 100 - championUtilizationWeight*utilization
	if defaulted {
		champion -= championDefaultPenalty
	}
	if !verified {
		champion -= championUnverifiedPenalty
	}

	challenger := 100 - challengerUtilizationWeight*utilization
	if defaulted {
		challenger -= challengerDefaultPenalty
	}
	if !verified {
		challenger -= challengerUnverifiedPenalty
	}
	if velocity > challengerVelocityLimit {
		challenger -= challengerVelocityPenalty
	}

	return Scores{
		Champion:   round2(champion),
		Challenger: round2(challenger),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
