// Package companion runs the affective core: it owns the one emotion
// engine, personality system and decision maker of the process, feeds them
// perception and user stimuli, and hands chosen actions to an executor.
package companion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alex/mochi/internal/decision"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

// Executor carries out an action and reports how it went.
type Executor interface {
	Execute(ctx context.Context, a decision.Action, mood emotion.Snapshot, traits personality.Vector) (decision.Outcome, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, a decision.Action, mood emotion.Snapshot, traits personality.Vector) (decision.Outcome, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, a decision.Action, mood emotion.Snapshot, traits personality.Vector) (decision.Outcome, error) {
	return f(ctx, a, mood, traits)
}

// nopExecutor accepts every action with a neutral outcome.
var nopExecutor = ExecutorFunc(func(context.Context, decision.Action, emotion.Snapshot, personality.Vector) (decision.Outcome, error) {
	return decision.Outcome{Success: 0.5}, nil
})

// ContextSource reports what perception saw since it was last asked.
type ContextSource interface {
	Context(now time.Time) sense.Context
}

// Turn is the result of one Step.
type Turn struct {
	At        time.Time
	Mood      emotion.Snapshot
	Pattern   string // behavior pattern that fired, if any
	Utterance string // the pattern's styled response
	Action    decision.Action
	Decided   bool
	Outcome   decision.Outcome
}

// Status is a point-in-time view for presentation.
type Status struct {
	Mood        emotion.Snapshot
	Feeling     string
	Traits      personality.Vector
	Temperament string
	Decisions   decision.Summary
	Present     bool
	Busy        bool
}

const (
	defaultUpdateEvery = time.Second
	defaultDecideEvery = 10 * time.Second
	defaultGrowEvery   = 24 * time.Hour
)

// Companion wires the core components together. The components are shared
// by pointer; Companion never copies them.
type Companion struct {
	engine *emotion.Engine
	traits *personality.System
	maker  *decision.Maker

	exec   Executor
	source ContextSource

	mu              sync.Mutex
	present         bool
	busy            bool
	lastInteraction time.Time
	lastAction      decision.Action
	hasAction       bool
	lastPattern     string

	born        time.Time
	updateEvery time.Duration
	decideEvery time.Duration
	growEvery   time.Duration
	clock       func() time.Time
	onTurn      func(Turn)
	log         *zap.Logger
}

// Option configures a Companion.
type Option func(*Companion)

// WithExecutor sets the action executor.
func WithExecutor(e Executor) Option {
	return func(c *Companion) { c.exec = e }
}

// WithContextSource sets the perception source.
func WithContextSource(s ContextSource) Option {
	return func(c *Companion) { c.source = s }
}

// WithIntervals sets the update, decide and growth periods used by Run.
// Non-positive values keep the defaults.
func WithIntervals(update, decide, grow time.Duration) Option {
	return func(c *Companion) {
		if update > 0 {
			c.updateEvery = update
		}
		if decide > 0 {
			c.decideEvery = decide
		}
		if grow > 0 {
			c.growEvery = grow
		}
	}
}

// WithBirth sets the time growth is measured from.
func WithBirth(t time.Time) Option {
	return func(c *Companion) { c.born = t }
}

// WithClock sets the time source used by Run.
func WithClock(now func() time.Time) Option {
	return func(c *Companion) { c.clock = now }
}

// WithTurnHook registers a function called after every Step.
func WithTurnHook(fn func(Turn)) Option {
	return func(c *Companion) { c.onTurn = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Companion) { c.log = l.Named("companion") }
}

// New creates a Companion around the given components.
func New(engine *emotion.Engine, traits *personality.System, maker *decision.Maker, opts ...Option) *Companion {
	c := &Companion{
		engine:      engine,
		traits:      traits,
		maker:       maker,
		exec:        nopExecutor,
		updateEvery: defaultUpdateEvery,
		decideEvery: defaultDecideEvery,
		growEvery:   defaultGrowEvery,
		clock:       time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.born.IsZero() {
		c.born = c.clock()
	}
	return c
}

// Engine returns the shared emotion engine.
func (c *Companion) Engine() *emotion.Engine { return c.engine }

// Personality returns the shared personality system.
func (c *Companion) Personality() *personality.System { return c.traits }

// Maker returns the shared decision maker.
func (c *Companion) Maker() *decision.Maker { return c.maker }

// Observe applies a user stimulus: it stirs the matching emotions, counts
// as an interaction, and for praise or criticism feeds the reaction back
// into the last action and behavior pattern, each of which is credited at
// most once.
func (c *Companion) Observe(s Stimulus) {
	triggers, ok := cueTriggers[s.Cue]
	if !ok {
		c.log.Warn("ignoring unknown stimulus", zap.Uint8("cue", uint8(s.Cue)))
		return
	}
	for _, t := range triggers {
		c.engine.ProcessTrigger(t, s.At)
	}

	reaction := personality.OutcomeNeutral
	switch s.Cue {
	case CuePraise:
		reaction = personality.OutcomePositive
	case CueCriticism:
		reaction = personality.OutcomeNegative
	}

	c.mu.Lock()
	c.present = true
	c.lastInteraction = s.At
	action, hasAction, pattern := c.lastAction, c.hasAction, c.lastPattern
	if reaction != personality.OutcomeNeutral {
		// A firing and a decision are credited once.
		c.hasAction, c.lastPattern = false, ""
	}
	c.mu.Unlock()

	c.traits.LearnFromInteraction(personality.Experience{
		At:           s.At,
		Pattern:      pattern,
		Outcome:      reaction,
		UserResponse: s.Cue.String(),
	})
	if hasAction && reaction != personality.OutcomeNeutral {
		success := 0.0
		if reaction == personality.OutcomePositive {
			success = 1
		}
		c.maker.LearnFromOutcome(action, decision.Outcome{Success: success, Reaction: reaction})
	}

	c.log.Debug("stimulus observed",
		zap.Stringer("cue", s.Cue),
		zap.Stringer("mood", c.engine.Snapshot().Dominant))
}

// SetPresence records whether the user is around and busy.
func (c *Companion) SetPresence(present, busy bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if present && !c.present {
		c.lastInteraction = now
	}
	c.present = present
	c.busy = present && busy
}

// Sleep settles the mood for the night.
func (c *Companion) Sleep(now time.Time) { c.engine.Sleep(now) }

// Wake restores the daytime temperament.
func (c *Companion) Wake(now time.Time) { c.engine.Wake(now) }

// gather merges perception with the companion's own presence record.
func (c *Companion) gather(now time.Time) sense.Context {
	c.mu.Lock()
	own := sense.New().
		WithUserPresent(c.present).
		WithUserBusy(c.busy).
		WithLastInteraction(c.lastInteraction)
	c.mu.Unlock()

	if c.source == nil {
		return own
	}
	return own.Merge(c.source.Context(now))
}

// Step runs one full cycle: decay, perceive, check behavior patterns,
// decide, execute and learn. An executor failure is returned after the
// turn has been recorded.
func (c *Companion) Step(ctx context.Context, now time.Time) (Turn, error) {
	c.engine.Update(now)

	sc := c.gather(now)
	if len(sc.NewDiscoveries) > 0 {
		c.engine.ProcessTrigger(discoveryTrigger, now)
	}
	if len(sc.FileChanges) > 0 {
		c.engine.ProcessTrigger(changeTrigger, now)
	}

	turn := Turn{At: now, Mood: c.engine.Snapshot()}

	if p, ok := c.traits.EvaluateBehaviorTrigger(sc, turn.Mood, now); ok {
		turn.Pattern = p.Name
		turn.Utterance = c.traits.GenerateResponse(p, sc)
		c.mu.Lock()
		c.lastPattern = p.Name
		c.mu.Unlock()
	}

	action, ok := c.maker.Decide(sc, now)
	if !ok {
		c.emit(turn)
		return turn, nil
	}
	turn.Action, turn.Decided = action, true

	c.mu.Lock()
	c.lastAction, c.hasAction = action, true
	c.mu.Unlock()

	outcome, err := c.exec.Execute(ctx, action, turn.Mood, c.traits.Traits())
	if err != nil {
		c.log.Warn("action execution failed", zap.Stringer("action", action.Kind), zap.Error(err))
		c.emit(turn)
		return turn, fmt.Errorf("executing %s: %w", action.Kind, err)
	}
	turn.Outcome = outcome
	c.maker.LearnFromOutcome(action, outcome)

	c.emit(turn)
	return turn, nil
}

func (c *Companion) emit(t Turn) {
	if c.onTurn != nil {
		c.onTurn(t)
	}
}

// Grow ages the personality to now.
func (c *Companion) Grow(now time.Time) {
	days := int(now.Sub(c.born) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	c.traits.SimulateGrowth(days, now)
}

// Status reports the current state.
func (c *Companion) Status() Status {
	mood := c.engine.Snapshot()
	traits := c.traits.Traits()

	c.mu.Lock()
	present, busy := c.present, c.busy
	c.mu.Unlock()

	return Status{
		Mood:        mood,
		Feeling:     mood.Describe(),
		Traits:      traits,
		Temperament: traits.Describe(),
		Decisions:   c.maker.Summary(),
		Present:     present,
		Busy:        busy,
	}
}

// Run drives the companion until ctx is done: decay every update period,
// a full Step every decide period and growth every growth period.
func (c *Companion) Run(ctx context.Context) error {
	update := time.NewTicker(c.updateEvery)
	defer update.Stop()
	decide := time.NewTicker(c.decideEvery)
	defer decide.Stop()
	grow := time.NewTicker(c.growEvery)
	defer grow.Stop()

	c.log.Info("companion started",
		zap.Duration("update", c.updateEvery),
		zap.Duration("decide", c.decideEvery),
		zap.Duration("grow", c.growEvery))

	c.Grow(c.clock())

	for {
		select {
		case <-ctx.Done():
			c.log.Info("companion stopped")
			return nil

		case <-update.C:
			c.engine.Update(c.clock())

		case <-decide.C:
			if _, err := c.Step(ctx, c.clock()); err != nil && ctx.Err() == nil {
				c.log.Debug("step finished with error", zap.Error(err))
			}

		case <-grow.C:
			c.Grow(c.clock())
		}
	}
}
