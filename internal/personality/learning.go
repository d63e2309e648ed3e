package personality

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is how the user took a behavior.
type Outcome uint8

const (
	OutcomeNeutral Outcome = iota
	OutcomePositive
	OutcomeNegative
)

func (o Outcome) String() string {
	switch o {
	case OutcomePositive:
		return "positive"
	case OutcomeNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// ParseOutcome maps a name onto an outcome; anything unrecognised is neutral.
func ParseOutcome(name string) Outcome {
	switch name {
	case "positive":
		return OutcomePositive
	case "negative":
		return OutcomeNegative
	default:
		return OutcomeNeutral
	}
}

// Experience is one observed interaction.
type Experience struct {
	ID           uuid.UUID
	At           time.Time
	Pattern      string // name of the pattern that fired, empty if none
	Outcome      Outcome
	UserResponse string
}

const (
	positiveStep = 0.01
	negativeStep = -0.005

	curiosityGrowthPerDay = 0.001
	maxExperienceBonus    = 0.1
)

// LearnFromInteraction records the experience and, when it names a known
// pattern and a positive or negative outcome, nudges every trait that
// pattern depends on.
func (s *System) LearnFromInteraction(exp Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}
	s.experiences.Push(exp)

	if exp.Pattern == "" || exp.Outcome == OutcomeNeutral {
		return
	}
	i := s.indexLocked(exp.Pattern)
	if i < 0 {
		s.log.Debug("experience references unknown pattern", zap.String("pattern", exp.Pattern))
		return
	}

	step := positiveStep
	if exp.Outcome == OutcomeNegative {
		step = negativeStep
	}
	for trait := range s.patterns[i].Thresholds {
		s.vector.Add(trait, step)
	}
	s.logTraitsLocked(exp.At, "feedback_"+exp.Outcome.String(), exp.Pattern)

	s.log.Debug("personality adjusted from feedback",
		zap.String("pattern", exp.Pattern),
		zap.Stringer("outcome", exp.Outcome))
}

// Experiences returns the recorded experiences, oldest first.
func (s *System) Experiences() []Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.Items()
}

// ExperienceCount returns the number of recorded experiences.
func (s *System) ExperienceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences.Len()
}

// growthState tracks how much growth has already been applied so that
// SimulateGrowth can be called repeatedly with a running age.
type growthState struct {
	days  int
	bonus float64
}

// SimulateGrowth ages the personality to daysPassed days since it was
// created. Curiosity grows by 0.001 per day and intelligence by up to 0.1
// in proportion to accumulated experience. Growth already applied for a
// given age and experience count is not applied again, so repeated calls
// with the same inputs leave the vector unchanged.
func (s *System) SimulateGrowth(daysPassed int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if daysPassed > s.growth.days {
		s.vector.Add(Curiosity, curiosityGrowthPerDay*float64(daysPassed-s.growth.days))
		s.growth.days = daysPassed
		changed = true
	}

	bonus := float64(s.experiences.Len()) / float64(maxExperiences) * maxExperienceBonus
	if bonus > maxExperienceBonus {
		bonus = maxExperienceBonus
	}
	if bonus > s.growth.bonus {
		s.vector.Add(Intelligence, bonus-s.growth.bonus)
		s.growth.bonus = bonus
		changed = true
	}

	if changed {
		s.logTraitsLocked(now, "natural_growth", "")
		s.log.Info("personality grew",
			zap.Int("days", daysPassed),
			zap.String("intelligence", fmt.Sprintf("%.3f", s.vector.Intelligence)),
			zap.String("curiosity", fmt.Sprintf("%.3f", s.vector.Curiosity)))
	}
}
