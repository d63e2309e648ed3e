package personality

import (
	"strings"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/sense"
)

// Styling probabilities and the trait levels that unlock them.
const (
	particleTrait  = 0.7
	particleChance = 0.3
	emotiveTrait   = 0.6
	emotiveChance  = 0.2
	questionTrait  = 0.7
	questionChance = 0.3
)

var (
	softParticles   = []string{"~", " hehe", " ya know", " hm"}
	emotiveMarkers  = []string{":)", ":D", "^_^", "<3"}
	questionLeads   = []string{"By the way, ", "Hey, ", "Hmm, "}
	curiousQuestion = []string{"what are you up to?", "anything new?", "what do you think?"}
)

// GenerateResponse picks one of the pattern's templates and dresses it in
// the personality's speaking style. The context is accepted for executors
// that want to specialise templates; the built-in styling does not read it.
func (s *System) GenerateResponse(p Pattern, _ sense.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(p.Responses) == 0 {
		return ""
	}
	base := chance.Pick(s.rng, p.Responses)
	return s.styleLocked(base)
}

func (s *System) styleLocked(text string) string {
	out := text

	if s.vector.Playfulness > particleTrait && chance.Roll(s.rng, particleChance) {
		out += chance.Pick(s.rng, softParticles)
	}

	if s.vector.Sociability > emotiveTrait && chance.Roll(s.rng, emotiveChance) {
		out += " " + chance.Pick(s.rng, emotiveMarkers)
	}

	if s.vector.Curiosity > questionTrait && !strings.HasSuffix(strings.TrimSpace(text), "?") &&
		chance.Roll(s.rng, questionChance) {
		out += " " + chance.Pick(s.rng, questionLeads) + chance.Pick(s.rng, curiousQuestion)
	}

	return out
}
