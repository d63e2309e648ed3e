package personality

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/ring"
	"github.com/alex/mochi/internal/sense"
)

const (
	maxExperiences = 1000
	maxTraitLog    = 100
)

// TraitChange is one entry of the personality development log.
type TraitChange struct {
	At      time.Time
	Vector  Vector
	Reason  string
	Pattern string
}

// System owns the personality vector and the behavior pattern library.
// All methods are safe for concurrent use; one System is shared by every
// caller.
type System struct {
	mu sync.Mutex

	vector      Vector
	patterns    []Pattern
	experiences *ring.Buffer[Experience]
	traitLog    *ring.Buffer[TraitChange]
	growth      growthState

	rng chance.Source
	log *zap.Logger
}

// Option configures a System.
type Option func(*System)

// WithVector sets the starting personality. Values are clamped.
func WithVector(v Vector) Option {
	return func(s *System) { s.vector = v.Clamp() }
}

// WithPatterns replaces the behavior library. Patterns without a name,
// responses, or a usable fire probability are dropped.
func WithPatterns(patterns []Pattern) Option {
	return func(s *System) {
		s.patterns = s.patterns[:0]
		for _, p := range patterns {
			if !p.valid() {
				s.log.Warn("dropping unusable behavior pattern", zap.String("pattern", p.Name))
				continue
			}
			s.patterns = append(s.patterns, p.clone())
		}
	}
}

// WithSource sets the random source for firing draws and response styling.
func WithSource(src chance.Source) Option {
	return func(s *System) { s.rng = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *System) { s.log = l.Named("personality") }
}

// New creates a System with the default vector and pattern library.
func New(opts ...Option) *System {
	s := &System{
		vector:      DefaultVector(),
		patterns:    DefaultPatterns(),
		experiences: ring.New[Experience](maxExperiences),
		traitLog:    ring.New[TraitChange](maxTraitLog),
		rng:         chance.New(0),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Traits returns a copy of the current personality vector.
func (s *System) Traits() Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vector
}

// Patterns returns a copy of the behavior library in evaluation order.
func (s *System) Patterns() []Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Pattern, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.clone()
	}
	return out
}

// Pattern looks up a pattern by name.
func (s *System) Pattern(name string) (Pattern, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(name); i >= 0 {
		return s.patterns[i].clone(), true
	}
	return Pattern{}, false
}

func (s *System) indexLocked(name string) int {
	for i := range s.patterns {
		if s.patterns[i].Name == name {
			return i
		}
	}
	return -1
}

// EvaluateBehaviorTrigger walks the library in order and returns the first
// pattern that is off cooldown, whose trait thresholds are met, whose
// triggers hold, and whose firing draw succeeds. The returned pattern is
// marked as fired at now.
func (s *System) EvaluateBehaviorTrigger(ctx sense.Context, mood emotion.Snapshot, now time.Time) (Pattern, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.patterns {
		p := &s.patterns[i]
		if p.CoolingDown(now) {
			continue
		}
		if !p.Qualifies(s.vector) {
			continue
		}
		if !anySatisfied(p.Triggers, ctx, mood, now) {
			continue
		}
		if !chance.Roll(s.rng, p.FireProbability) {
			continue
		}

		p.LastFiredAt = now
		s.log.Debug("behavior pattern fired",
			zap.String("pattern", p.Name),
			zap.Stringer("mood", mood.Dominant))
		return p.clone(), true
	}
	return Pattern{}, false
}

func anySatisfied(triggers []Trigger, ctx sense.Context, mood emotion.Snapshot, now time.Time) bool {
	for _, t := range triggers {
		if t.Satisfied(ctx, mood, now) {
			return true
		}
	}
	return false
}

// TraitLog returns the personality development log, oldest first.
func (s *System) TraitLog() []TraitChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traitLog.Items()
}

func (s *System) logTraitsLocked(at time.Time, reason, pattern string) {
	s.traitLog.Push(TraitChange{At: at, Vector: s.vector, Reason: reason, Pattern: pattern})
}
