package decision

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// stub is a settable mood and temperament source.
type stub struct {
	mood   emotion.Snapshot
	traits personality.Vector
}

func (s *stub) Snapshot() emotion.Snapshot { return s.mood }
func (s *stub) Traits() personality.Vector { return s.traits }

func neutral() emotion.Snapshot {
	return emotion.Snapshot{Dominant: emotion.None}
}

func reserved() personality.Vector {
	return personality.Vector{Curiosity: 0.5, Playfulness: 0.5, Sociability: 0.5}
}

func liveMaker(opts ...Option) (*Maker, *emotion.Engine, *personality.System) {
	engine := emotion.New(t0, emotion.WithFluctuationProbability(0))
	traits := personality.New()
	return New(engine, traits, opts...), engine, traits
}

func TestDecide_LongSilenceSeeksAttention(t *testing.T) {
	m, _, _ := liveMaker(WithSource(chance.Fixed(0)))
	now := t0
	ctx := sense.New().WithLastInteraction(now.Add(-1900 * time.Second))

	action, ok := m.Decide(ctx, now)
	require.True(t, ok)
	assert.Equal(t, SeekAttention, action.Kind)
	assert.Equal(t, Urgent, action.Priority)
	assert.Equal(t, "gentle_greeting", action.Params.Approach)
	assert.Equal(t, 60*time.Second, action.EstimatedDuration)

	history := m.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Situation.Has(LongSilence))
	assert.Equal(t, action, history[0].Action)
	assert.Equal(t, now, history[0].At)
}

func TestDecide_UsesOwnInteractionRecord(t *testing.T) {
	s := &stub{mood: neutral(), traits: reserved()}
	m := New(s, s, WithSource(chance.Fixed(0)))

	_, ok := m.Decide(sense.New().WithUserPresent(true), t0)
	require.True(t, ok)

	action, ok := m.Decide(sense.New(), t0.Add(31*time.Minute))
	require.True(t, ok)
	assert.Equal(t, SeekAttention, action.Kind)

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, 31*time.Minute, history[1].Situation.Env.Silence)

	recent := m.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, history[1].ID, recent[0].ID)
	assert.Len(t, m.Recent(10), 2)
	assert.Empty(t, m.Recent(0))
}

func TestDecide_RestWhenNothingApplies(t *testing.T) {
	s := &stub{mood: neutral(), traits: reserved()}
	m := New(s, s)

	action, ok := m.Decide(sense.New(), t0)
	require.True(t, ok)
	assert.Equal(t, Rest, action.Kind)
	assert.Equal(t, Low, action.Priority)
	assert.Equal(t, 300*time.Second, action.EstimatedDuration)
}

func TestDecide_TopCandidatesShareSelections(t *testing.T) {
	// explore .89, play .83, communicate .79 sit in one band; observe .55 does not.
	s := &stub{mood: neutral(), traits: personality.DefaultVector()}
	m := New(s, s, WithSource(chance.New(7)))
	ctx := sense.New().WithUserPresent(true).WithNewContent(true)

	counts := make(map[Kind]int)
	for i := 0; i < 1000; i++ {
		action, ok := m.Decide(ctx, t0.Add(time.Duration(i)*time.Second))
		require.True(t, ok)
		counts[action.Kind]++
	}

	assert.Positive(t, counts[Explore])
	assert.Positive(t, counts[Play])
	assert.Positive(t, counts[Communicate])
	assert.Zero(t, counts[Observe])
}

func TestScoreCandidates_DoesNotRecord(t *testing.T) {
	m, _, _ := liveMaker()
	ctx := sense.New().WithUserPresent(true).WithDiscoveries("photo.png")

	scored := m.ScoreCandidates(ctx, t0)
	require.NotEmpty(t, scored)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}

	assert.Empty(t, m.History())
	assert.Empty(t, m.AttentionTargets())
}

func TestScoreCandidates_ExportedTraitsReproduceScores(t *testing.T) {
	original := personality.New()
	original.LearnFromInteraction(personality.Experience{At: t0, Pattern: "explore", Outcome: personality.OutcomePositive})
	original.LearnFromInteraction(personality.Experience{At: t0, Pattern: "mischief", Outcome: personality.OutcomeNegative})

	raw, err := yaml.Marshal(original.Traits())
	require.NoError(t, err)
	var imported personality.Vector
	require.NoError(t, yaml.Unmarshal(raw, &imported))
	restored := personality.New(personality.WithVector(imported))

	ctx := sense.New().
		WithUserPresent(true).
		WithNewContent(true).
		WithLastInteraction(t0.Add(-12 * time.Minute))

	a := New(emotion.New(t0, emotion.WithFluctuationProbability(0)), original)
	b := New(emotion.New(t0, emotion.WithFluctuationProbability(0)), restored)

	assert.Equal(t, a.ScoreCandidates(ctx, t0), b.ScoreCandidates(ctx, t0))
}

func TestLearnFromOutcome(t *testing.T) {
	m, _, _ := liveMaker()
	chat := Action{Kind: Communicate}
	play := Action{Kind: Play}

	assert.Equal(t, 0.5, m.Preference(Communicate))
	assert.Empty(t, m.Preferences())

	m.LearnFromOutcome(chat, Outcome{Success: 1, Reaction: personality.OutcomePositive})
	assert.InDelta(t, 0.65, m.Preference(Communicate), 1e-9)

	m.LearnFromOutcome(play, Outcome{Success: 0, Reaction: personality.OutcomeNegative})
	assert.InDelta(t, 0.35, m.Preference(Play), 1e-9)

	m.LearnFromOutcome(play, Outcome{Success: 0.5, Reaction: personality.OutcomeNeutral})
	assert.InDelta(t, 0.35, m.Preference(Play), 1e-9)

	for i := 0; i < 50; i++ {
		m.LearnFromOutcome(chat, Outcome{Success: 1, Reaction: personality.OutcomePositive})
		m.LearnFromOutcome(play, Outcome{Success: -3, Reaction: personality.OutcomeNegative})
	}
	assert.Equal(t, 1.0, m.Preference(Communicate))
	assert.Equal(t, 0.0, m.Preference(Play))
	assert.Len(t, m.Preferences(), 2)
}

func TestLearnFromOutcome_ShiftsScores(t *testing.T) {
	s := &stub{mood: neutral(), traits: reserved()}
	m := New(s, s)

	before := m.ScoreCandidates(sense.New(), t0)
	m.LearnFromOutcome(Action{Kind: Rest}, Outcome{Success: 1, Reaction: personality.OutcomePositive})
	after := m.ScoreCandidates(sense.New(), t0)

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.InDelta(t, 0.015, after[0].Score-before[0].Score, 1e-9)
}

func TestGoals_RecomputedEachCycle(t *testing.T) {
	s := &stub{mood: emotion.Snapshot{Dominant: emotion.Sadness, Intensity: 0.7}, traits: reserved()}
	m := New(s, s)

	m.Decide(sense.New().WithLastInteraction(t0.Add(-40*time.Minute)), t0)
	assert.Equal(t, map[string]Priority{
		GoalCompanionship: Urgent,
		GoalExplore:       Medium,
		GoalExpress:       Medium,
		GoalStayPositive:  Urgent,
	}, goalPriorities(m))

	s.mood = emotion.Snapshot{Dominant: emotion.Curiosity, Intensity: 0.6}
	m.Decide(sense.New().WithUserPresent(true), t0.Add(time.Minute))
	assert.Equal(t, map[string]Priority{
		GoalCompanionship: High,
		GoalExplore:       High,
		GoalExpress:       Medium,
		GoalStayPositive:  High,
	}, goalPriorities(m))
}

func goalPriorities(m *Maker) map[string]Priority {
	out := make(map[string]Priority)
	for _, g := range m.Goals() {
		out[g.Name] = g.Priority
	}
	return out
}

func TestAddRemoveGoal(t *testing.T) {
	m, _, _ := liveMaker()

	m.AddGoal(Goal{Name: "nap", BasePriority: 9})
	m.AddGoal(Goal{Name: "nap", BasePriority: Low, Description: "second"})

	goals := m.Goals()
	require.Len(t, goals, 5)
	assert.Equal(t, "nap", goals[4].Name)
	assert.Equal(t, Low, goals[4].Priority)
	assert.Equal(t, "second", goals[4].Description)

	assert.True(t, m.RemoveGoal("nap"))
	assert.False(t, m.RemoveGoal("nap"))
	assert.Len(t, m.Goals(), 4)

	m.RemoveGoal(GoalExplore)
	assert.Equal(t, 3, m.Summary().Goals)
}

func TestWithGoals_ClampsPriority(t *testing.T) {
	m, _, _ := liveMaker(WithGoals([]Goal{{Name: "only", BasePriority: 0}}))

	goals := m.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, Low, goals[0].BasePriority)
}

func TestDecide_HistoryAndAttentionBounded(t *testing.T) {
	s := &stub{mood: neutral(), traits: reserved()}
	m := New(s, s)

	for i := 0; i < 120; i++ {
		ctx := sense.New().WithDiscoveries(fmt.Sprintf("item-%d", i))
		_, ok := m.Decide(ctx, t0.Add(time.Duration(i)*time.Second))
		require.True(t, ok)
	}

	history := m.History()
	require.Len(t, history, maxHistory)
	assert.Equal(t, t0.Add(20*time.Second), history[0].At)
	assert.NotEqual(t, history[0].ID, history[1].ID)

	assert.Equal(t, []string{"item-115", "item-116", "item-117", "item-118", "item-119"}, m.AttentionTargets())

	sum := m.Summary()
	assert.Equal(t, maxHistory, sum.Decisions)
	assert.Equal(t, t0.Add(119*time.Second), sum.LastDecisionAt)
	assert.Len(t, sum.AttentionTargets, maxAttentionTargets)
}

func TestMaker_ConcurrentUse(t *testing.T) {
	m, engine, traits := liveMaker(WithSource(chance.New(3)))

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				now := t0.Add(time.Duration(i*50+j) * time.Second)
				engine.Update(now)
				action, ok := m.Decide(sense.New().WithUserPresent(j%2 == 0), now)
				if ok {
					m.LearnFromOutcome(action, Outcome{Success: 0.7, Reaction: personality.OutcomePositive})
					traits.LearnFromInteraction(personality.Experience{At: now, Pattern: "explore", Outcome: personality.OutcomePositive})
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, maxHistory, len(m.History()))
	for _, p := range m.Preferences() {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	assert.Len(t, Kinds(), 8)
	_, ok := ParseKind("dance")
	assert.False(t, ok)
	assert.Equal(t, "seek_attention", SeekAttention.String())
	assert.Equal(t, "urgent", Urgent.String())
}
