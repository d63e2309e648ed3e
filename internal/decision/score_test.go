package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

func TestAnalyze_SilenceBands(t *testing.T) {
	tests := []struct {
		silence time.Duration
		want    []Factor
	}{
		{599 * time.Second, nil},
		{600 * time.Second, []Factor{MediumSilence}},
		{1799 * time.Second, []Factor{MediumSilence}},
		{1800 * time.Second, []Factor{LongSilence}},
		{1900 * time.Second, []Factor{LongSilence}},
	}
	for _, tc := range tests {
		t.Run(tc.silence.String(), func(t *testing.T) {
			ctx := sense.New().WithLastInteraction(t0.Add(-tc.silence))
			sit := analyze(ctx, time.Time{}, neutral(), reserved(), t0)
			assert.Equal(t, tc.want, sit.Urgency)
		})
	}
}

func TestAnalyze_NoInteractionKnown(t *testing.T) {
	sit := analyze(sense.New(), time.Time{}, neutral(), reserved(), t0)
	assert.Empty(t, sit.Urgency)
	assert.False(t, sit.Env.SilenceKnown)
}

func TestAnalyze_EmotionAndOpportunityFactors(t *testing.T) {
	lonely := emotion.Snapshot{Dominant: emotion.Loneliness, Intensity: 0.75}
	sit := analyze(sense.New(), time.Time{}, lonely, reserved(), t0)
	assert.Equal(t, []Factor{HighLoneliness}, sit.Urgency)

	sad := emotion.Snapshot{Dominant: emotion.Sadness, Intensity: 0.6}
	sit = analyze(sense.New(), time.Time{}, sad, reserved(), t0)
	assert.Empty(t, sit.Urgency, "sadness must exceed 0.6")

	ctx := sense.New().WithUserPresent(true).WithDiscoveries("notes.txt")
	sit = analyze(ctx, time.Time{}, neutral(), personality.DefaultVector(), t0)
	assert.Equal(t, []Factor{CuriosityTrigger, PlayOpportunity}, sit.Opportunity)
}

func kindsOf(actions []Action) []Kind {
	out := make([]Kind, len(actions))
	for i, a := range actions {
		out[i] = a.Kind
	}
	return out
}

func TestCandidates_RuleTable(t *testing.T) {
	playful := reserved()
	playful.Playfulness = 0.9
	curious := reserved()
	curious.Curiosity = 0.8

	tests := []struct {
		name   string
		ctx    sense.Context
		mood   emotion.Snapshot
		traits personality.Vector
		want   []Kind
	}{
		{"nothing", sense.New(), neutral(), reserved(), []Kind{Rest}},
		{"sad", sense.New(), emotion.Snapshot{Dominant: emotion.Sadness, Intensity: 0.8}, reserved(), []Kind{Communicate}},
		{"excited", sense.New(), emotion.Snapshot{Dominant: emotion.Excitement, Intensity: 0.5}, reserved(), []Kind{Communicate}},
		{"playful with company", sense.New().WithUserPresent(true), neutral(), playful, []Kind{Play, Communicate}},
		{"playful alone", sense.New(), neutral(), playful, []Kind{Rest}},
		{"curious with news", sense.New().WithNewContent(true), neutral(), curious, []Kind{Explore, Observe}},
		{"curious without news", sense.New(), neutral(), curious, []Kind{Observe}},
		{
			"lonely and silent",
			sense.New().WithLastInteraction(t0.Add(-2 * time.Hour)),
			emotion.Snapshot{Dominant: emotion.Loneliness, Intensity: 0.9},
			reserved(),
			[]Kind{SeekAttention},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sit := analyze(tc.ctx, time.Time{}, tc.mood, tc.traits, t0)
			assert.Equal(t, tc.want, kindsOf(candidates(sit)))
		})
	}
}

func TestScore_Coefficients(t *testing.T) {
	traits := personality.DefaultVector()
	lonely := Situation{
		Emotion: emotion.Snapshot{Dominant: emotion.Loneliness, Intensity: 0.8},
		Traits:  traits,
	}

	assert.InDelta(t, 1.65, score(Action{Kind: SeekAttention, Priority: Urgent}, lonely, 0.5), 1e-9)
	// user absent
	assert.InDelta(t, 0.49, score(Action{Kind: Communicate, Priority: Medium}, lonely, 0.5), 1e-9)

	curious := Situation{
		Emotion: emotion.Snapshot{Dominant: emotion.Curiosity, Intensity: 0.5},
		Traits:  traits,
		Env:     Environment{NewContent: true},
	}
	assert.InDelta(t, 1.09, score(Action{Kind: Explore, Priority: Medium}, curious, 0.5), 1e-9)
	assert.InDelta(t, 0.55, score(Action{Kind: Observe, Priority: Low}, curious, 0.5), 1e-9)

	excited := Situation{
		Emotion: emotion.Snapshot{Dominant: emotion.Excitement, Intensity: 1},
		Traits:  traits,
		Env:     Environment{UserPresent: true},
	}
	assert.InDelta(t, 1.13, score(Action{Kind: Play, Priority: Medium}, excited, 0.5), 1e-9)
}

func TestScore_FlooredAtZero(t *testing.T) {
	sit := Situation{Traits: personality.Vector{}}
	assert.Equal(t, 0.0, score(Action{Kind: Communicate}, sit, 0))
}

func TestChoose_TieBandIsDistributional(t *testing.T) {
	ranked := []Scored{
		{Action: Action{Kind: Explore}, Score: 0.81},
		{Action: Action{Kind: Play}, Score: 0.80},
		{Action: Action{Kind: Observe}, Score: 0.65},
	}
	src := chance.New(11)

	counts := make(map[Kind]int)
	for i := 0; i < 1000; i++ {
		counts[choose(ranked, src).Action.Kind]++
	}
	assert.Positive(t, counts[Explore])
	assert.Positive(t, counts[Play])
	assert.Equal(t, 1000, counts[Explore]+counts[Play]+counts[Observe])
}

func TestChoose_StrictMaximumOutsideBand(t *testing.T) {
	ranked := []Scored{
		{Action: Action{Kind: SeekAttention}, Score: 1.25},
		{Action: Action{Kind: Observe}, Score: 0.35},
	}
	src := chance.Fixed(0).WithInts(1)

	for i := 0; i < 10; i++ {
		assert.Equal(t, SeekAttention, choose(ranked, src).Action.Kind)
	}
}

func TestChoose_BandCoversOnlyTopThree(t *testing.T) {
	ranked := rank([]Scored{
		{Action: Action{Kind: Rest}, Score: 0.5},
		{Action: Action{Kind: Explore}, Score: 0.9},
		{Action: Action{Kind: Play}, Score: 0.85},
		{Action: Action{Kind: Observe}, Score: 0.8},
	})
	require.Equal(t, Explore, ranked[0].Action.Kind)

	src := chance.Fixed(0).WithInts(0, 1, 2, 3)
	seen := make(map[Kind]bool)
	for i := 0; i < 8; i++ {
		seen[choose(ranked, src).Action.Kind] = true
	}
	assert.Equal(t, map[Kind]bool{Explore: true, Play: true, Observe: true}, seen)
}
