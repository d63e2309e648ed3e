package decision

import (
	"time"

	"github.com/alex/mochi/internal/emotion"
)

// rule proposes action when its condition holds.
type rule struct {
	name   string
	when   func(Situation) bool
	action Action
}

// rules is evaluated top to bottom; every rule that holds contributes a
// candidate.
var rules = []rule{
	{
		name: "lonely_or_long_silence",
		when: func(s Situation) bool { return s.Has(HighLoneliness) || s.Has(LongSilence) },
		action: Action{
			Kind:              SeekAttention,
			Description:       "reach out to the user for attention and company",
			Priority:          Urgent,
			EstimatedDuration: 60 * time.Second,
			Params:            Params{Approach: "gentle_greeting"},
		},
	},
	{
		name: "sad",
		when: func(s Situation) bool { return s.Has(Sadness) },
		action: Action{
			Kind:              Communicate,
			Description:       "say that it feels sad and look for comfort",
			Priority:          High,
			EstimatedDuration: 120 * time.Second,
			Params:            Params{EmotionalExpression: "sadness", SeekComfort: true},
		},
	},
	{
		name: "curious_about_news",
		when: func(s Situation) bool { return s.Has(CuriosityTrigger) },
		action: Action{
			Kind:              Explore,
			Description:       "explore the interesting new content",
			Priority:          Medium,
			EstimatedDuration: 300 * time.Second,
			Params:            Params{Exploration: "new_content"},
		},
	},
	{
		name: "play_time",
		when: func(s Situation) bool { return s.Has(PlayOpportunity) },
		action: Action{
			Kind:              Play,
			Description:       "start an interactive game with the user",
			Priority:          Medium,
			EstimatedDuration: 180 * time.Second,
			Params:            Params{Style: "interactive"},
		},
	},
	{
		name: "playful_chat",
		when: func(s Situation) bool { return s.Traits.Playfulness > playfulTraitLevel && s.Env.UserPresent },
		action: Action{
			Kind:              Communicate,
			Description:       "tease the user playfully",
			Priority:          Medium,
			EstimatedDuration: 90 * time.Second,
			Params:            Params{Style: "playful", Mood: "mischievous"},
		},
	},
	{
		name: "look_around",
		when: func(s Situation) bool { return s.Traits.Curiosity > curiousTraitLevel },
		action: Action{
			Kind:              Observe,
			Description:       "look around for something interesting",
			Priority:          Low,
			EstimatedDuration: 120 * time.Second,
			Params:            Params{ObservationScope: "environment"},
		},
	},
	{
		name: "excited_share",
		when: func(s Situation) bool { return s.Emotion.Dominant == emotion.Excitement },
		action: Action{
			Kind:              Communicate,
			Description:       "excitedly share a discovery or idea",
			Priority:          High,
			EstimatedDuration: 60 * time.Second,
			Params:            Params{Tone: "excited", Topic: "discovery"},
		},
	},
}

var restAction = Action{
	Kind:              Rest,
	Description:       "wait quietly and watch",
	Priority:          Low,
	EstimatedDuration: 300 * time.Second,
}

// candidates returns at least one action for any situation.
func candidates(sit Situation) []Action {
	var out []Action
	for _, r := range rules {
		if r.when(sit) {
			out = append(out, r.action)
		}
	}
	if len(out) == 0 {
		out = append(out, restAction)
	}
	return out
}
