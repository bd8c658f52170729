package bot

import rand "math/rand/v2"

// Personality skews a bot's probability curves so two bots with the same
// cards still play differently. Regenerated every round so opponents cannot
// book a read on a table mate.
type Personality struct {
	Aggression    float64 // raises calling and escalation probability
	BluffRate     float64 // chance a weak hand still bets
	Conservatism  float64 // raises acceptance thresholds
	Impulsiveness float64 // widens deviation from the baseline play
}

// newPersonality draws a fresh personality from the agent's rng.
func newPersonality(rng *rand.Rand) Personality {
	return Personality{
		Aggression:    0.3 + rng.Float64()*0.5,
		BluffRate:     0.05 + rng.Float64()*0.2,
		Conservatism:  0.2 + rng.Float64()*0.5,
		Impulsiveness: rng.Float64() * 0.4,
	}
}
