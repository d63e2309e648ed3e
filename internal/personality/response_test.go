package personality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/sense"
)

func explorePattern(t *testing.T, s *System) Pattern {
	t.Helper()
	p, ok := s.Pattern("explore")
	require.True(t, ok)
	return p
}

func TestGenerateResponse_FullStyling(t *testing.T) {
	s := New(WithSource(chance.Fixed(0)))

	got := s.GenerateResponse(explorePattern(t, s), sense.New())
	assert.Equal(t, "Ooh, what is this? I want to know more!~ :) By the way, what are you up to?", got)
}

func TestGenerateResponse_NoStylingWhenDrawsFail(t *testing.T) {
	s := New(WithSource(chance.Fixed(0.99)))

	got := s.GenerateResponse(explorePattern(t, s), sense.New())
	assert.Equal(t, "Ooh, what is this? I want to know more!", got)
}

func TestGenerateResponse_SkipsQuestionAfterQuestion(t *testing.T) {
	s := New(WithSource(chance.Fixed(0).WithInts(3)))

	got := s.GenerateResponse(explorePattern(t, s), sense.New())
	assert.Equal(t, "This is so interesting, can you tell me more? hm <3", got)
}

func TestGenerateResponse_ReservedPersonalityIsPlain(t *testing.T) {
	s := New(
		WithVector(Vector{Curiosity: 0.5, Playfulness: 0.5, Sociability: 0.5}),
		WithSource(chance.Fixed(0)),
	)

	got := s.GenerateResponse(explorePattern(t, s), sense.New())
	assert.Equal(t, "Ooh, what is this? I want to know more!", got)
}

func TestGenerateResponse_EmptyPattern(t *testing.T) {
	s := New()
	assert.Empty(t, s.GenerateResponse(Pattern{Name: "empty"}, sense.New()))
}
