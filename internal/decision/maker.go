package decision

import (
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/ring"
	"github.com/alex/mochi/internal/sense"
)

const (
	maxHistory          = 100
	maxAttentionTargets = 5
)

// EmotionReader supplies the current mood. *emotion.Engine satisfies it.
type EmotionReader interface {
	Snapshot() emotion.Snapshot
}

// TraitReader supplies the current temperament. *personality.System
// satisfies it.
type TraitReader interface {
	Traits() personality.Vector
}

// Record is one entry of the decision history.
type Record struct {
	ID        uuid.UUID `json:"id"`
	At        time.Time `json:"at"`
	Action    Action    `json:"action"`
	Score     float64   `json:"score"`
	Situation Situation `json:"situation"`
}

// Summary is a status view of the maker.
type Summary struct {
	Goals            int              `json:"goals"`
	Decisions        int              `json:"decisions"`
	LastDecisionAt   time.Time        `json:"last_decision_at,omitzero"`
	Preferences      map[Kind]float64 `json:"preferences"`
	AttentionTargets []string         `json:"attention_targets"`
}

// Maker holds goals, learned preferences and decision history. All methods
// are safe for concurrent use.
type Maker struct {
	mu sync.Mutex

	emotions EmotionReader
	traits   TraitReader

	goals           []Goal
	preferences     map[Kind]float64
	history         *ring.Buffer[Record]
	attention       *ring.Buffer[string]
	lastInteraction time.Time

	rng chance.Source
	log *zap.Logger
}

// Option configures a Maker.
type Option func(*Maker)

// WithSource sets the random source used to break near-ties.
func WithSource(src chance.Source) Option {
	return func(m *Maker) { m.rng = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Maker) { m.log = l.Named("decision") }
}

// WithGoals replaces the seed goal set.
func WithGoals(goals []Goal) Option {
	return func(m *Maker) {
		m.goals = m.goals[:0]
		for _, g := range goals {
			m.goals = append(m.goals, normalizeGoal(g))
		}
	}
}

// New creates a Maker reading mood and temperament from the given sources.
func New(emotions EmotionReader, traits TraitReader, opts ...Option) *Maker {
	m := &Maker{
		emotions:    emotions,
		traits:      traits,
		goals:       DefaultGoals(),
		preferences: make(map[Kind]float64),
		history:     ring.New[Record](maxHistory),
		attention:   ring.New[string](maxAttentionTargets),
		rng:         chance.New(0),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func normalizeGoal(g Goal) Goal {
	g = g.clone()
	g.BasePriority = clampPriority(int(g.BasePriority))
	g.Priority = g.BasePriority
	return g
}

// Decide analyses the situation, re-weighs goals, scores the candidate
// actions and returns the chosen one. The second result is false only when
// no candidate was produced.
func (m *Maker) Decide(ctx sense.Context, now time.Time) (Action, bool) {
	mood := m.emotions.Snapshot()
	traits := m.traits.Traits()

	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx.UserPresent {
		m.lastInteraction = now
	}
	for _, d := range ctx.NewDiscoveries {
		m.attention.Push(d)
	}

	sit := analyze(ctx, m.lastInteraction, mood, traits, now)
	reprioritize(m.goals, sit)

	ranked := rank(m.scoreLocked(sit))
	if len(ranked) == 0 {
		return Action{}, false
	}
	chosen := choose(ranked, m.rng)

	m.history.Push(Record{
		ID:        uuid.New(),
		At:        now,
		Action:    chosen.Action,
		Score:     chosen.Score,
		Situation: sit,
	})

	m.log.Info("decision made",
		zap.Stringer("action", chosen.Action.Kind),
		zap.Stringer("priority", chosen.Action.Priority),
		zap.Float64("score", chosen.Score),
		zap.Int("candidates", len(ranked)),
		zap.Stringer("mood", mood.Dominant))
	return chosen.Action, true
}

// ScoreCandidates returns the ranked candidates Decide would choose from,
// without recording anything.
func (m *Maker) ScoreCandidates(ctx sense.Context, now time.Time) []Scored {
	mood := m.emotions.Snapshot()
	traits := m.traits.Traits()

	m.mu.Lock()
	defer m.mu.Unlock()

	last := m.lastInteraction
	if ctx.UserPresent {
		last = now
	}
	return rank(m.scoreLocked(analyze(ctx, last, mood, traits, now)))
}

func (m *Maker) scoreLocked(sit Situation) []Scored {
	actions := candidates(sit)
	out := make([]Scored, len(actions))
	for i, a := range actions {
		out[i] = Scored{Action: a, Score: score(a, sit, m.preferenceLocked(a.Kind))}
	}
	return out
}

func (m *Maker) preferenceLocked(k Kind) float64 {
	if p, ok := m.preferences[k]; ok {
		return p
	}
	return defaultPreference
}

const (
	reactionStep = 0.1
	successScale = 0.1
)

// LearnFromOutcome adjusts the preference for the action's kind.
func (m *Maker) LearnFromOutcome(action Action, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delta := (clamp01(outcome.Success) - 0.5) * successScale
	switch outcome.Reaction {
	case personality.OutcomePositive:
		delta += reactionStep
	case personality.OutcomeNegative:
		delta -= reactionStep
	}

	pref := clamp01(m.preferenceLocked(action.Kind) + delta)
	m.preferences[action.Kind] = pref

	m.log.Debug("action preference updated",
		zap.Stringer("action", action.Kind),
		zap.Stringer("reaction", outcome.Reaction),
		zap.Float64("preference", pref))
}

// Preference returns the learned preference for k.
func (m *Maker) Preference(k Kind) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preferenceLocked(k)
}

// Preferences returns the preferences learned so far.
func (m *Maker) Preferences() map[Kind]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.preferences)
}

// Goals returns the goals with the priorities of the last cycle.
func (m *Maker) Goals() []Goal {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Goal, len(m.goals))
	for i, g := range m.goals {
		out[i] = g.clone()
	}
	return out
}

// AddGoal appends a goal, replacing any goal with the same name.
func (m *Maker) AddGoal(g Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g = normalizeGoal(g)
	m.goals = slices.DeleteFunc(m.goals, func(old Goal) bool { return old.Name == g.Name })
	m.goals = append(m.goals, g)
	m.log.Info("goal added", zap.String("goal", g.Name), zap.Stringer("priority", g.BasePriority))
}

// RemoveGoal drops the named goal. It reports whether a goal was removed.
func (m *Maker) RemoveGoal(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.goals)
	m.goals = slices.DeleteFunc(m.goals, func(g Goal) bool { return g.Name == name })
	if len(m.goals) == n {
		return false
	}
	m.log.Info("goal removed", zap.String("goal", name))
	return true
}

// History returns past decisions, oldest first.
func (m *Maker) History() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Items()
}

// Recent returns up to n of the latest decisions, oldest first.
func (m *Maker) Recent(n int) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Last(n)
}

// AttentionTargets returns the most recent discoveries, oldest first.
func (m *Maker) AttentionTargets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attention.Items()
}

// Summary reports the maker's state.
func (m *Maker) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		Goals:            len(m.goals),
		Decisions:        m.history.Len(),
		Preferences:      maps.Clone(m.preferences),
		AttentionTargets: m.attention.Items(),
	}
	if last, ok := m.history.Newest(); ok {
		s.LastDecisionAt = last.At
	}
	return s
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
