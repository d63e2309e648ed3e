package personality

import (
	"time"

	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/sense"
)

// Trigger is a named condition a behavior pattern listens for.
type Trigger string

const (
	TriggerSilence          Trigger = "silence"           // no interaction for a while
	TriggerNewInformation   Trigger = "new_information"   // something new was perceived
	TriggerUserBusy         Trigger = "user_busy"         // user is occupied
	TriggerAttentionSeeking Trigger = "attention_seeking" // user is here but busy
	TriggerBoredom          Trigger = "boredom"           // calm mood and long idle
	TriggerLoneliness       Trigger = "loneliness"        // dominant emotion is loneliness
	TriggerUserReturn       Trigger = "user_return"       // user present after a long gap
	TriggerEmotionalNeed    Trigger = "emotional_need"    // strong negative mood
	TriggerDisappointment   Trigger = "disappointment"    // dominant emotion is sadness
	TriggerDiscovery        Trigger = "discovery"         // discovery flag set
	TriggerCreativeMood     Trigger = "creative_mood"     // joyful or excited
	TriggerEmotionalContent Trigger = "emotional_content" // user seems upset
)

const (
	silenceThreshold   = 5 * time.Minute
	boredomThreshold   = 10 * time.Minute
	returnThreshold    = 30 * time.Minute
	emotionalNeedLevel = 0.6
	negativeNeedLevel  = 0.5
)

// situation is what a trigger predicate sees.
type situation struct {
	ctx  sense.Context
	mood emotion.Snapshot
	now  time.Time
}

func (s situation) silence() (time.Duration, bool) {
	return s.ctx.SilenceSince(s.now)
}

func (s situation) dominantIs(kinds ...emotion.Kind) bool {
	for _, k := range kinds {
		if s.mood.Dominant == k {
			return true
		}
	}
	return false
}

// predicates maps each trigger to its test. A trigger missing from this
// table never fires.
var predicates = map[Trigger]func(situation) bool{
	TriggerSilence: func(s situation) bool {
		d, ok := s.silence()
		return ok && d > silenceThreshold
	},
	TriggerNewInformation: func(s situation) bool {
		return s.ctx.HasNewInformation()
	},
	TriggerUserBusy: func(s situation) bool {
		return s.ctx.UserBusy
	},
	TriggerAttentionSeeking: func(s situation) bool {
		return s.ctx.UserPresent && s.ctx.UserBusy
	},
	TriggerBoredom: func(s situation) bool {
		if !s.dominantIs(emotion.None, emotion.Contentment) {
			return false
		}
		d, ok := s.silence()
		return ok && d > boredomThreshold
	},
	TriggerLoneliness: func(s situation) bool {
		return s.dominantIs(emotion.Loneliness)
	},
	TriggerUserReturn: func(s situation) bool {
		d, ok := s.silence()
		return s.ctx.UserPresent && ok && d > returnThreshold
	},
	TriggerEmotionalNeed: func(s situation) bool {
		if s.dominantIs(emotion.Loneliness) {
			return s.mood.Intensity >= emotionalNeedLevel
		}
		return s.mood.Dominant.Negative() && s.mood.Intensity >= negativeNeedLevel
	},
	TriggerDisappointment: func(s situation) bool {
		return s.dominantIs(emotion.Sadness)
	},
	TriggerDiscovery: func(s situation) bool {
		return s.ctx.DiscoveredContent
	},
	TriggerCreativeMood: func(s situation) bool {
		return s.dominantIs(emotion.Joy, emotion.Excitement)
	},
	TriggerEmotionalContent: func(s situation) bool {
		return s.ctx.EmotionHint.Distressed()
	},
}

// Satisfied reports whether the trigger holds for the given context and mood.
func (t Trigger) Satisfied(ctx sense.Context, mood emotion.Snapshot, now time.Time) bool {
	pred, ok := predicates[t]
	if !ok {
		return false
	}
	return pred(situation{ctx: ctx, mood: mood, now: now})
}
