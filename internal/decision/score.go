package decision

import (
	"cmp"
	"slices"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
)

const (
	priorityWeight    = 0.3
	preferenceWeight  = 0.1
	absentPenalty     = 0.3
	newContentBonus   = 0.2
	defaultPreference = 0.5

	// tieBand is the spread within which the top candidates are
	// considered equally good.
	tieBand = 0.2
	tieTop  = 3
)

// emotionBonus weights the dominant emotion's intensity per action kind.
var emotionBonus = map[Kind]map[emotion.Kind]float64{
	SeekAttention: {emotion.Loneliness: 0.5},
	Explore:       {emotion.Curiosity: 0.4},
	Play:          {emotion.Joy: 0.3, emotion.Excitement: 0.3},
}

type traitWeight struct {
	trait  personality.Trait
	weight float64
}

// traitBonus weights one trait per action kind.
var traitBonus = map[Kind]traitWeight{
	Communicate: {personality.Sociability, 0.2},
	Explore:     {personality.Curiosity, 0.3},
	Play:        {personality.Playfulness, 0.2},
}

// Scored is a candidate with its score.
type Scored struct {
	Action Action  `json:"action"`
	Score  float64 `json:"score"`
}

// score rates one candidate. preference is the learned preference for the
// action's kind.
func score(a Action, sit Situation, preference float64) float64 {
	s := priorityWeight * float64(a.Priority)

	kind, level := sit.mood()
	s += emotionBonus[a.Kind][kind] * level

	if tw, ok := traitBonus[a.Kind]; ok {
		s += sit.Traits.Get(tw.trait) * tw.weight
	}

	s += preferenceWeight * preference

	switch a.Kind {
	case Communicate:
		if !sit.Env.UserPresent {
			s -= absentPenalty
		}
	case Observe:
		if sit.Env.NewContent {
			s += newContentBonus
		}
	}
	return max(0, s)
}

// rank sorts candidates by descending score. Equal scores keep rule order.
func rank(scored []Scored) []Scored {
	out := slices.Clone(scored)
	slices.SortStableFunc(out, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// choose picks from ranked candidates: a uniform draw among the top three
// when they lie within the tie band, the best one otherwise.
func choose(ranked []Scored, src chance.Source) Scored {
	if len(ranked) == 1 {
		return ranked[0]
	}
	top := ranked[:min(tieTop, len(ranked))]
	if top[0].Score-top[len(top)-1].Score < tieBand {
		return chance.Pick(src, top)
	}
	return top[0]
}
