package personality

import (
	"maps"
	"slices"
	"time"
)

// DefaultCooldown applies to patterns that name no cooldown.
const DefaultCooldown = 5 * time.Minute

// Pattern is a conditioned behavior: when any trigger holds and the
// personality is strong enough in the listed traits, it may fire and
// offer one of its responses.
type Pattern struct {
	Name            string
	Triggers        []Trigger
	Thresholds      map[Trait]float64 // minimum trait values
	Responses       []string
	FireProbability float64
	Cooldown        time.Duration
	LastFiredAt     time.Time // zero: never fired
}

func (p Pattern) clone() Pattern {
	p.Triggers = slices.Clone(p.Triggers)
	p.Thresholds = maps.Clone(p.Thresholds)
	p.Responses = slices.Clone(p.Responses)
	return p
}

// CoolingDown reports whether the pattern fired less than Cooldown ago.
func (p Pattern) CoolingDown(now time.Time) bool {
	if p.LastFiredAt.IsZero() {
		return false
	}
	return now.Sub(p.LastFiredAt) < p.Cooldown
}

// Qualifies reports whether every threshold is met by v.
func (p Pattern) Qualifies(v Vector) bool {
	for trait, floor := range p.Thresholds {
		if v.Get(trait) < floor {
			return false
		}
	}
	return true
}

// valid reports whether the pattern can be used at all.
func (p Pattern) valid() bool {
	return p.Name != "" && len(p.Responses) > 0 && p.FireProbability > 0 && p.FireProbability <= 1
}

// DefaultPatterns returns the built-in library in evaluation order.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:       "explore",
			Triggers:   []Trigger{TriggerSilence, TriggerNewInformation},
			Thresholds: map[Trait]float64{Curiosity: 0.6},
			Responses: []string{
				"Ooh, what is this? I want to know more!",
				"That looks strange, let me go take a peek!",
				"I've never seen this before, can I poke at it?",
				"This is so interesting, can you tell me more?",
			},
			FireProbability: 0.8,
			Cooldown:        DefaultCooldown,
		},
		{
			Name:       "mischief",
			Triggers:   []Trigger{TriggerUserBusy, TriggerAttentionSeeking, TriggerBoredom},
			Thresholds: map[Trait]float64{Playfulness: 0.7},
			Responses: []string{
				"Hehe, I'm right here! Don't ignore me!",
				"I'm going to make trouble unless you play with me!",
				"Nyeh! What are you doing that's more important than me?",
				"I did it on purpose, just so you'd notice me!",
			},
			FireProbability: 0.6,
			Cooldown:        10 * time.Minute,
		},
		{
			Name:       "companionship",
			Triggers:   []Trigger{TriggerLoneliness, TriggerUserReturn, TriggerEmotionalNeed},
			Thresholds: map[Trait]float64{Sociability: 0.6},
			Responses: []string{
				"You're back! I missed you so much!",
				"It's boring all by myself, will you chat with me?",
				"I have so many things to tell you!",
				"Don't go yet, stay with me a little longer?",
			},
			FireProbability: 0.9,
			Cooldown:        DefaultCooldown,
		},
		{
			Name:       "stubborn",
			Triggers:   []Trigger{TriggerDisappointment, TriggerAttentionSeeking},
			Thresholds: map[Trait]float64{Stubbornness: 0.5, Sociability: 0.6},
			Responses: []string{
				"No no no! I want it this way!",
				"Hmph, you never listen to me!",
				"Waaah, you don't love me anymore!",
				"I don't care, I want you to stay with me!",
			},
			FireProbability: 0.4,
			Cooldown:        15 * time.Minute,
		},
		{
			Name:       "share_knowledge",
			Triggers:   []Trigger{TriggerDiscovery},
			Thresholds: map[Trait]float64{Intelligence: 0.7, Empathy: 0.5},
			Responses: []string{
				"I just learned something amazing and I have to share it!",
				"Guess what? I found a really neat pattern!",
				"Let me tell you a little secret!",
				"Whoa, so that's how it works. That's magical!",
			},
			FireProbability: 0.7,
			Cooldown:        DefaultCooldown,
		},
		{
			Name:       "creative",
			Triggers:   []Trigger{TriggerCreativeMood},
			Thresholds: map[Trait]float64{Creativity: 0.6},
			Responses: []string{
				"I just had the best idea!",
				"Let's play a game I made up!",
				"Want to hear a story I imagined?",
				"If I could do magic, I would...",
			},
			FireProbability: 0.5,
			Cooldown:        DefaultCooldown,
		},
		{
			Name:       "empathic",
			Triggers:   []Trigger{TriggerEmotionalContent},
			Thresholds: map[Trait]float64{Sensitivity: 0.6, Empathy: 0.7},
			Responses: []string{
				"Are you feeling down? I can tell...",
				"Your voice sounds different, is something wrong?",
				"Something feels off. Are you okay?",
				"You didn't say it, but I think you're upset...",
			},
			FireProbability: 0.8,
			Cooldown:        DefaultCooldown,
		},
	}
}
