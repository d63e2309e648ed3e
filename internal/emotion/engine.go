package emotion

import (
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/ring"
)

// State is one active emotion.
type State struct {
	Kind        Kind
	Intensity   float64
	ExpiresAt   time.Time // zero: never expires
	CreatedAt   time.Time
	LastUpdated time.Time
	Sources     []string // newest last, at most 8

	seq uint64 // creation order, settles dominance ties
}

func (s *State) clone() State {
	c := *s
	c.Sources = slices.Clone(s.Sources)
	return c
}

func (s *State) addSource(src string) {
	s.Sources = append(s.Sources, src)
	if len(s.Sources) > maxSources {
		s.Sources = slices.Clone(s.Sources[len(s.Sources)-maxSources:])
	}
}

// Trigger is a request to feel something.
type Trigger struct {
	Kind      Kind
	Intensity float64
	Source    string
	Duration  time.Duration // zero: engine default
}

// Engine owns the active emotions. All methods are safe for concurrent use;
// a single Engine is meant to be shared by every caller.
type Engine struct {
	mu sync.Mutex

	active   map[Kind]*State
	nextSeq  uint64
	lastTick time.Time
	history  *ring.Buffer[State]

	rng             chance.Source
	log             *zap.Logger
	defaultDuration time.Duration
	fluctuation     float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for mood fluctuation.
func WithSource(src chance.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l.Named("emotion") }
}

// WithDefaultDuration sets how long a trigger lasts when it names no duration.
func WithDefaultDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.defaultDuration = d
		}
	}
}

// WithFluctuationProbability sets the chance of a spontaneous mood drift
// per update that advances the clock.
func WithFluctuationProbability(p float64) Option {
	return func(e *Engine) { e.fluctuation = clamp01(p) }
}

// New creates an engine holding the baseline temperament as of now.
func New(now time.Time, opts ...Option) *Engine {
	e := &Engine{
		active:          make(map[Kind]*State),
		history:         ring.New[State](historyLength),
		rng:             chance.New(0),
		log:             zap.NewNop(),
		defaultDuration: DefaultDuration,
		fluctuation:     DefaultFluctuationProbability,
		lastTick:        now,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, b := range baselines {
		e.active[b.Kind] = &State{
			Kind:        b.Kind,
			Intensity:   b.Target,
			CreatedAt:   now,
			LastUpdated: now,
			Sources:     []string{"initialization"},
			seq:         e.allocSeq(),
		}
	}
	return e
}

func (e *Engine) allocSeq() uint64 {
	e.nextSeq++
	return e.nextSeq
}

// ProcessTrigger merges a trigger into the active set. Unknown kinds are
// replaced by a mild curiosity trigger and out-of-range intensities are
// clamped; nothing is ever rejected.
func (e *Engine) ProcessTrigger(t Trigger, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.processLocked(t, now)
}

// ProcessNamed is ProcessTrigger for callers that only have a kind name,
// such as upstream classifiers.
func (e *Engine) ProcessNamed(name string, intensity float64, source string, now time.Time) {
	kind, ok := ParseKind(name)
	if !ok {
		e.log.Warn("unknown emotion kind, substituting curiosity",
			zap.String("kind", name), zap.String("source", source))
	}
	e.ProcessTrigger(Trigger{Kind: kind, Intensity: intensity, Source: source}, now)
}

func (e *Engine) processLocked(t Trigger, now time.Time) {
	if !t.Kind.Valid() {
		e.log.Debug("invalid trigger kind, using fallback",
			zap.Uint8("kind", uint8(t.Kind)), zap.String("source", t.Source))
		t = Trigger{Kind: Curiosity, Intensity: FallbackIntensity, Source: fallbackSource}
	}
	if t.Intensity < 0 || t.Intensity > 1 || math.IsNaN(t.Intensity) {
		e.log.Debug("clamping trigger intensity",
			zap.Stringer("kind", t.Kind), zap.Float64("intensity", t.Intensity))
	}
	intensity := clamp01(t.Intensity)
	if t.Source == "" {
		t.Source = "unknown"
	}
	duration := t.Duration
	if duration <= 0 {
		duration = e.defaultDuration
	}
	_, baseline := baselineTarget(t.Kind)

	state, ok := e.active[t.Kind]
	if ok && !e.decayLocked(state, now) {
		ok = false
	}
	if ok {
		state.Intensity = math.Min(1, state.Intensity+intensity)
		if !baseline {
			if until := now.Add(duration); until.After(state.ExpiresAt) {
				state.ExpiresAt = until
			}
		}
		if now.After(state.LastUpdated) {
			state.LastUpdated = now
		}
		state.addSource(t.Source)
	} else {
		state = &State{
			Kind:        t.Kind,
			Intensity:   intensity,
			CreatedAt:   now,
			LastUpdated: now,
			Sources:     []string{t.Source},
			seq:         e.allocSeq(),
		}
		if !baseline {
			state.ExpiresAt = now.Add(duration)
		}
		e.active[t.Kind] = state
	}

	e.applyInteractions(t.Kind, intensity)
	e.history.Push(state.clone())

	e.log.Debug("emotion triggered",
		zap.Stringer("kind", t.Kind),
		zap.Float64("intensity", intensity),
		zap.Float64("level", state.Intensity),
		zap.String("source", t.Source))
}

func (e *Engine) applyInteractions(source Kind, intensity float64) {
	for _, inf := range interactions[source] {
		target, ok := e.active[inf.Target]
		if !ok {
			continue
		}
		target.Intensity = clamp01(target.Intensity + intensity*inf.Weight)
		if _, baseline := baselineTarget(inf.Target); !baseline && target.Intensity <= 0 {
			delete(e.active, inf.Target)
		}
	}
}

// Update decays every active emotion by the wall-clock time elapsed since
// it was last touched, drops expired or exhausted emotions, and may inject
// a small spontaneous mood. Calling Update again with the same now is a
// no-op.
func (e *Engine) Update(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !now.After(e.lastTick) {
		return
	}
	e.lastTick = now

	for _, kind := range e.orderLocked() {
		e.decayLocked(e.active[kind], now)
	}

	e.fluctuateLocked(now)
}

// decayLocked brings state forward to now. It reports false, after
// removing the state, when the emotion expired or faded out.
func (e *Engine) decayLocked(state *State, now time.Time) bool {
	elapsed := now.Sub(state.LastUpdated).Seconds()
	if elapsed <= 0 {
		return true
	}
	kind := state.Kind
	target, baseline := baselineTarget(kind)

	if !baseline && !state.ExpiresAt.IsZero() && !now.Before(state.ExpiresAt) {
		delete(e.active, kind)
		e.log.Debug("emotion expired", zap.Stringer("kind", kind))
		return false
	}

	if baseline {
		switch {
		case state.Intensity > target:
			state.Intensity = math.Max(target, state.Intensity-decayRate(kind)*elapsed)
		case state.Intensity < target:
			state.Intensity = math.Min(target, state.Intensity+recoveryRate*elapsed)
		}
	} else {
		state.Intensity = clamp01(state.Intensity - decayRate(kind)*elapsed)
		if state.Intensity <= 0 {
			delete(e.active, kind)
			e.log.Debug("emotion faded", zap.Stringer("kind", kind))
			return false
		}
	}
	state.LastUpdated = now
	return true
}

func (e *Engine) fluctuateLocked(now time.Time) {
	if !chance.Roll(e.rng, e.fluctuation) {
		return
	}
	kind := chance.Pick(e.rng, fluctuationKinds)
	intensity := chance.Between(e.rng, 0.1, 0.3)
	duration := time.Duration(chance.Between(e.rng, 60, 300) * float64(time.Second))
	e.processLocked(Trigger{
		Kind:      kind,
		Intensity: intensity,
		Source:    fluctuationSource,
		Duration:  duration,
	}, now)
}

// orderLocked returns active kinds in creation order.
func (e *Engine) orderLocked() []Kind {
	kinds := make([]Kind, 0, len(e.active))
	for k := range e.active {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, func(a, b Kind) int {
		sa, sb := e.active[a].seq, e.active[b].seq
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	return kinds
}

// States returns copies of the active emotions in creation order.
func (e *Engine) States() []State {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]State, 0, len(e.active))
	for _, k := range e.orderLocked() {
		out = append(out, e.active[k].clone())
	}
	return out
}

// Levels returns the intensity of every active emotion.
func (e *Engine) Levels() map[Kind]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[Kind]float64, len(e.active))
	for k, s := range e.active {
		out[k] = s.Intensity
	}
	return out
}

// History returns the recorded post-trigger states, oldest first.
func (e *Engine) History() []State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Items()
}

// Trend returns the recorded intensities of kind at or after since.
func (e *Engine) Trend(kind Kind, since time.Time) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []float64
	for _, s := range e.history.Items() {
		if s.Kind == kind && !s.LastUpdated.Before(since) {
			out = append(out, s.Intensity)
		}
	}
	return out
}

// Sleep damps every emotion and settles into contentment.
func (e *Engine) Sleep(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.active {
		s.Intensity *= 0.8
	}
	e.processLocked(Trigger{Kind: Contentment, Intensity: 0.4, Source: "sleep", Duration: 10 * time.Minute}, now)
}

// Wake restores the baseline temperament and adds a burst of curiosity.
func (e *Engine) Wake(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, b := range baselines {
		if s, ok := e.active[b.Kind]; ok {
			s.Intensity = b.Target
		}
	}
	e.processLocked(Trigger{Kind: Curiosity, Intensity: 0.6, Source: "wake_up", Duration: 30 * time.Minute}, now)
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
