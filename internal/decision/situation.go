package decision

import (
	"slices"
	"time"

	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

// Factor is a derived situational cue.
type Factor uint8

const (
	// urgency
	LongSilence Factor = iota + 1
	MediumSilence
	HighLoneliness
	Sadness

	// opportunity
	CuriosityTrigger
	PlayOpportunity
)

var factorNames = map[Factor]string{
	LongSilence:      "long_silence",
	MediumSilence:    "medium_silence",
	HighLoneliness:   "high_loneliness",
	Sadness:          "sadness",
	CuriosityTrigger: "curiosity_trigger",
	PlayOpportunity:  "play_opportunity",
}

func (f Factor) String() string {
	if n, ok := factorNames[f]; ok {
		return n
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (f Factor) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

const (
	longSilence   = 30 * time.Minute
	mediumSilence = 10 * time.Minute

	highLonelinessLevel = 0.7
	sadnessLevel        = 0.6
	curiousTraitLevel   = 0.7
	playfulTraitLevel   = 0.8
)

// Environment is the part of the context the scorer looks at.
type Environment struct {
	UserPresent  bool          `json:"user_present"`
	UserBusy     bool          `json:"user_busy"`
	NewContent   bool          `json:"new_content"`
	ScreenActive bool          `json:"screen_active"`
	Silence      time.Duration `json:"silence"`
	SilenceKnown bool          `json:"silence_known"`
}

// Situation is the analysed view of one decision cycle.
type Situation struct {
	At          time.Time          `json:"at"`
	Urgency     []Factor           `json:"urgency"`
	Opportunity []Factor           `json:"opportunity"`
	Emotion     emotion.Snapshot   `json:"emotion"`
	Traits      personality.Vector `json:"traits"`
	Env         Environment        `json:"environment"`
}

// Has reports whether f was derived for this situation.
func (s Situation) Has(f Factor) bool {
	return slices.Contains(s.Urgency, f) || slices.Contains(s.Opportunity, f)
}

// Silent reports whether any silence factor is present.
func (s Situation) Silent() bool {
	return s.Has(LongSilence) || s.Has(MediumSilence)
}

// mood returns the dominant emotion and its intensity.
func (s Situation) mood() (emotion.Kind, float64) {
	return s.Emotion.Dominant, s.Emotion.Intensity
}

// analyze derives the situation. lastInteraction is the maker's own record
// and is only used when the context carries no interaction time.
func analyze(ctx sense.Context, lastInteraction time.Time, mood emotion.Snapshot, traits personality.Vector, now time.Time) Situation {
	sit := Situation{
		At:      now,
		Emotion: mood,
		Traits:  traits,
		Env: Environment{
			UserPresent:  ctx.UserPresent,
			UserBusy:     ctx.UserBusy,
			NewContent:   ctx.NewContentAvailable,
			ScreenActive: ctx.ScreenActive,
		},
	}

	if ctx.LastInteractionAt.IsZero() {
		ctx.LastInteractionAt = lastInteraction
	}
	if silence, ok := ctx.SilenceSince(now); ok {
		sit.Env.Silence, sit.Env.SilenceKnown = silence, true
		switch {
		case silence >= longSilence:
			sit.Urgency = append(sit.Urgency, LongSilence)
		case silence >= mediumSilence:
			sit.Urgency = append(sit.Urgency, MediumSilence)
		}
	}

	switch {
	case mood.Dominant == emotion.Loneliness && mood.Intensity > highLonelinessLevel:
		sit.Urgency = append(sit.Urgency, HighLoneliness)
	case mood.Dominant == emotion.Sadness && mood.Intensity > sadnessLevel:
		sit.Urgency = append(sit.Urgency, Sadness)
	}

	if traits.Curiosity > curiousTraitLevel && ctx.HasNewInformation() {
		sit.Opportunity = append(sit.Opportunity, CuriosityTrigger)
	}
	if traits.Playfulness > playfulTraitLevel && ctx.UserPresent {
		sit.Opportunity = append(sit.Opportunity, PlayOpportunity)
	}
	return sit
}
