package personality

import (
	"sort"
	"strings"

	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/sense"
)

const describeFloor = 0.6

var traitPhrases = map[Trait]string{
	Curiosity:       "very curious",
	Playfulness:     "mischievous",
	Sociability:     "outgoing",
	Stubbornness:    "a bit willful",
	Intelligence:    "clever",
	Empathy:         "understanding",
	Creativity:      "imaginative",
	Adventurousness: "adventurous",
	Sensitivity:     "sensitive",
	Independence:    "independent",
}

// Describe summarises the three strongest traits in plain words.
func (s *System) Describe() string {
	v := s.Traits()
	return v.Describe()
}

// Describe summarises the three strongest traits of v in plain words.
// Ties keep vector order.
func (v Vector) Describe() string {
	traits := Traits()
	sort.SliceStable(traits, func(i, j int) bool {
		return v.Get(traits[i]) > v.Get(traits[j])
	})

	var words []string
	for _, t := range traits[:3] {
		if v.Get(t) > describeFloor {
			words = append(words, traitPhrases[t])
		}
	}
	if len(words) == 0 {
		return "a gentle little creature"
	}
	return "a " + strings.Join(words, ", ") + " little one"
}

// Recommendation is a coarse behavior hint for hosts that want a nudge
// without running the decision maker.
type Recommendation string

const (
	RecommendExplore       Recommendation = "explore_new_content"
	RecommendCompanionship Recommendation = "seek_companionship"
	RecommendMischief      Recommendation = "playful_mischief"
	RecommendComfort       Recommendation = "offer_comfort"
)

// Recommendations lists the behaviors the current temperament leans
// towards in the given situation, in a fixed order.
func (s *System) Recommendations(ctx sense.Context, mood emotion.Snapshot) []Recommendation {
	v := s.Traits()

	var out []Recommendation
	if v.Curiosity > 0.7 && !ctx.UserBusy {
		out = append(out, RecommendExplore)
	}
	if v.Sociability > 0.6 && mood.Dominant == emotion.Loneliness {
		out = append(out, RecommendCompanionship)
	}
	if v.Playfulness > 0.8 && ctx.UserBusy {
		out = append(out, RecommendMischief)
	}
	if v.Empathy > 0.7 && (mood.Dominant == emotion.Sadness || ctx.EmotionHint == sense.HintSad) {
		out = append(out, RecommendComfort)
	}
	return out
}
