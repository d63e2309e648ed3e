package personality

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLearnFromInteraction_NudgesThresholdTraits(t *testing.T) {
	s := New()

	s.LearnFromInteraction(Experience{At: t0, Pattern: "stubborn", Outcome: OutcomePositive})

	v := s.Traits()
	assert.InDelta(t, 0.61, v.Stubbornness, 1e-9)
	assert.InDelta(t, 0.71, v.Sociability, 1e-9)
	assert.Equal(t, 0.8, v.Curiosity)

	s.LearnFromInteraction(Experience{At: t0, Pattern: "explore", Outcome: OutcomeNegative})
	assert.InDelta(t, 0.795, s.Traits().Curiosity, 1e-9)

	log := s.TraitLog()
	require.Len(t, log, 2)
	assert.Equal(t, "feedback_positive", log[0].Reason)
	assert.Equal(t, "stubborn", log[0].Pattern)
	assert.Equal(t, "feedback_negative", log[1].Reason)
}

func TestLearnFromInteraction_NoChangeWithoutSignal(t *testing.T) {
	s := New()
	before := s.Traits()

	s.LearnFromInteraction(Experience{At: t0, Pattern: "explore", Outcome: OutcomeNeutral})
	s.LearnFromInteraction(Experience{At: t0, Outcome: OutcomePositive})
	s.LearnFromInteraction(Experience{At: t0, Pattern: "no_such_pattern", Outcome: OutcomePositive})

	assert.Equal(t, before, s.Traits())
	assert.Equal(t, 3, s.ExperienceCount())
	assert.Empty(t, s.TraitLog())
}

func TestLearnFromInteraction_AssignsIDs(t *testing.T) {
	s := New()
	fixed := uuid.New()

	s.LearnFromInteraction(Experience{At: t0})
	s.LearnFromInteraction(Experience{ID: fixed, At: t0})

	exps := s.Experiences()
	require.Len(t, exps, 2)
	assert.NotEqual(t, uuid.Nil, exps[0].ID)
	assert.Equal(t, fixed, exps[1].ID)
}

func TestLearnFromInteraction_ExperienceLogBounded(t *testing.T) {
	s := New()
	for i := 0; i < maxExperiences+25; i++ {
		s.LearnFromInteraction(Experience{At: t0.Add(time.Duration(i) * time.Second)})
	}

	exps := s.Experiences()
	require.Len(t, exps, maxExperiences)
	assert.Equal(t, t0.Add(25*time.Second), exps[0].At)
}

func TestTraits_StayBoundedUnderAdversarialFeedback(t *testing.T) {
	s := New()
	for i := 0; i < 500; i++ {
		for _, p := range DefaultPatterns() {
			s.LearnFromInteraction(Experience{At: t0, Pattern: p.Name, Outcome: OutcomeNegative})
		}
		s.SimulateGrowth(i*100, t0)
	}
	assertBounded(t, s.Traits())
	assert.Equal(t, 0.0, s.Traits().Stubbornness)

	for i := 0; i < 500; i++ {
		for _, p := range DefaultPatterns() {
			s.LearnFromInteraction(Experience{At: t0, Pattern: p.Name, Outcome: OutcomePositive})
		}
	}
	assertBounded(t, s.Traits())
	assert.Equal(t, 1.0, s.Traits().Sociability)
}

func assertBounded(t *testing.T, v Vector) {
	t.Helper()
	for _, tr := range Traits() {
		got := v.Get(tr)
		assert.GreaterOrEqual(t, got, 0.0, tr.String())
		assert.LessOrEqual(t, got, 1.0, tr.String())
	}
}

func TestSimulateGrowth_AgesCuriosity(t *testing.T) {
	s := New()

	s.SimulateGrowth(10, t0)
	assert.InDelta(t, 0.81, s.Traits().Curiosity, 1e-9)

	s.SimulateGrowth(20, t0)
	assert.InDelta(t, 0.82, s.Traits().Curiosity, 1e-9)
}

func TestSimulateGrowth_IdempotentForSameInputs(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		s.LearnFromInteraction(Experience{At: t0})
	}

	s.SimulateGrowth(5, t0)
	first := s.Traits()
	assert.InDelta(t, 0.805, first.Curiosity, 1e-9)
	assert.InDelta(t, 0.81, first.Intelligence, 1e-9)

	s.SimulateGrowth(5, t0)
	s.SimulateGrowth(3, t0)
	assert.Equal(t, first, s.Traits())
	assert.Len(t, s.TraitLog(), 1)
}

func TestSimulateGrowth_ExperienceBonusCapped(t *testing.T) {
	v := DefaultVector()
	v.Intelligence = 0.5
	s := New(WithVector(v))
	for i := 0; i < maxExperiences*2; i++ {
		s.LearnFromInteraction(Experience{At: t0})
	}

	s.SimulateGrowth(0, t0)
	s.SimulateGrowth(1, t0)
	assert.InDelta(t, 0.6, s.Traits().Intelligence, 1e-9)
}

func TestVector_YAMLRoundTrip(t *testing.T) {
	s := New()
	s.LearnFromInteraction(Experience{At: t0, Pattern: "explore", Outcome: OutcomePositive})
	exported := s.Traits()

	raw, err := yaml.Marshal(exported)
	require.NoError(t, err)

	var imported Vector
	require.NoError(t, yaml.Unmarshal(raw, &imported))

	assert.Equal(t, exported, New(WithVector(imported)).Traits())
}

func TestSystem_ConcurrentUse(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				outcome := OutcomePositive
				if (i+j)%2 == 0 {
					outcome = OutcomeNegative
				}
				s.LearnFromInteraction(Experience{At: t0, Pattern: "companionship", Outcome: outcome})
				s.SimulateGrowth(j, t0)
				_ = s.Traits()
				_ = s.Describe()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, s.ExperienceCount())
	assertBounded(t, s.Traits())
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, OutcomePositive, ParseOutcome("positive"))
	assert.Equal(t, OutcomeNegative, ParseOutcome("negative"))
	assert.Equal(t, OutcomeNeutral, ParseOutcome("meh"))
	assert.Equal(t, "negative", OutcomeNegative.String())
}
