package emotion

import "time"

// baselines are the resting levels the temperament always returns to.
// Order matters: it is the creation order at startup, which settles
// dominance ties.
var baselines = []struct {
	Kind   Kind
	Target float64
}{
	{Curiosity, 0.7},
	{Joy, 0.5},
	{Excitement, 0.4},
	{Loneliness, 0.3},
}

// decayRates are per-second intensity losses.
var decayRates = map[Kind]float64{
	Joy:         0.02,
	Sadness:     0.015,
	Anger:       0.03,
	Fear:        0.025,
	Surprise:    0.05,
	Disgust:     0.02,
	Curiosity:   0.01,
	Excitement:  0.03,
	Loneliness:  0.005,
	Contentment: 0.01,
}

const (
	defaultDecayRate = 0.02
	// recoveryRate is the per-second climb of a baseline kind that sits
	// below its target.
	recoveryRate = 0.01

	maxSources    = 8
	recentSources = 3
	historyLength = 50

	secondaryThreshold = 0.3

	// FallbackIntensity is used when a trigger names an unknown kind.
	FallbackIntensity = 0.2
	fallbackSource    = "unrecognized_trigger"

	DefaultDuration               = 5 * time.Minute
	DefaultFluctuationProbability = 0.1
	fluctuationSource             = "natural_fluctuation"
)

// fluctuationKinds are the moods that drift in unprompted.
var fluctuationKinds = []Kind{Curiosity, Excitement, Contentment, Loneliness}

type influence struct {
	Target Kind
	Weight float64
}

// interactions lists, per triggered kind, how other active kinds shift in
// proportion to the trigger's intensity.
var interactions = map[Kind][]influence{
	Joy: {
		{Sadness, -0.3},
		{Anger, -0.2},
		{Fear, -0.2},
		{Loneliness, -0.4},
		{Excitement, 0.2},
	},
	Sadness: {
		{Joy, -0.3},
		{Excitement, -0.3},
		{Curiosity, -0.1},
		{Loneliness, 0.2},
	},
	Curiosity: {
		{Excitement, 0.2},
		{Joy, 0.1},
		{Sadness, -0.1},
	},
	Excitement: {
		{Joy, 0.2},
		{Curiosity, 0.1},
		{Loneliness, -0.2},
	},
	Loneliness: {
		{Joy, -0.2},
		{Sadness, 0.2},
		{Excitement, -0.1},
	},
}

func baselineTarget(k Kind) (float64, bool) {
	for _, b := range baselines {
		if b.Kind == k {
			return b.Target, true
		}
	}
	return 0, false
}

func decayRate(k Kind) float64 {
	if r, ok := decayRates[k]; ok {
		return r
	}
	return defaultDecayRate
}
