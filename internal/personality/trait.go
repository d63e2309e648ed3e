// Package personality implements the companion's temperament: a ten-trait
// vector that drifts slowly with experience, and a library of conditioned
// behavior patterns that fire from context and mood.
package personality

import (
	"fmt"
	"math"
)

// Trait names one dimension of the personality vector.
type Trait uint8

const (
	Curiosity Trait = iota
	Playfulness
	Sociability
	Stubbornness
	Intelligence
	Empathy
	Creativity
	Adventurousness
	Sensitivity
	Independence
)

var traitNames = [...]string{
	Curiosity:       "curiosity",
	Playfulness:     "playfulness",
	Sociability:     "sociability",
	Stubbornness:    "stubbornness",
	Intelligence:    "intelligence",
	Empathy:         "empathy",
	Creativity:      "creativity",
	Adventurousness: "adventurousness",
	Sensitivity:     "sensitivity",
	Independence:    "independence",
}

func (t Trait) String() string {
	if int(t) < len(traitNames) {
		return traitNames[t]
	}
	return fmt.Sprintf("trait(%d)", uint8(t))
}

// ParseTrait maps a name onto a trait.
func ParseTrait(name string) (Trait, bool) {
	for i, n := range traitNames {
		if n == name {
			return Trait(i), true
		}
	}
	return 0, false
}

// Traits returns all traits in vector order.
func Traits() []Trait {
	out := make([]Trait, len(traitNames))
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

// Vector is the personality: every field lies in [0, 1].
type Vector struct {
	Curiosity       float64 `yaml:"curiosity" json:"curiosity"`
	Playfulness     float64 `yaml:"playfulness" json:"playfulness"`
	Sociability     float64 `yaml:"sociability" json:"sociability"`
	Stubbornness    float64 `yaml:"stubbornness" json:"stubbornness"`
	Intelligence    float64 `yaml:"intelligence" json:"intelligence"`
	Empathy         float64 `yaml:"empathy" json:"empathy"`
	Creativity      float64 `yaml:"creativity" json:"creativity"`
	Adventurousness float64 `yaml:"adventurousness" json:"adventurousness"`
	Sensitivity     float64 `yaml:"sensitivity" json:"sensitivity"`
	Independence    float64 `yaml:"independence" json:"independence"`
}

// DefaultVector is a curious, playful, sociable youngster.
func DefaultVector() Vector {
	return Vector{
		Curiosity:       0.8,
		Playfulness:     0.9,
		Sociability:     0.7,
		Stubbornness:    0.6,
		Intelligence:    0.8,
		Empathy:         0.7,
		Creativity:      0.8,
		Adventurousness: 0.7,
		Sensitivity:     0.6,
		Independence:    0.4,
	}
}

func (v *Vector) field(t Trait) *float64 {
	switch t {
	case Curiosity:
		return &v.Curiosity
	case Playfulness:
		return &v.Playfulness
	case Sociability:
		return &v.Sociability
	case Stubbornness:
		return &v.Stubbornness
	case Intelligence:
		return &v.Intelligence
	case Empathy:
		return &v.Empathy
	case Creativity:
		return &v.Creativity
	case Adventurousness:
		return &v.Adventurousness
	case Sensitivity:
		return &v.Sensitivity
	case Independence:
		return &v.Independence
	}
	return nil
}

// Get returns the value of t, or 0 for an unknown trait.
func (v Vector) Get(t Trait) float64 {
	if f := v.field(t); f != nil {
		return *f
	}
	return 0
}

// Set assigns t, clamped to [0, 1]. Unknown traits are ignored.
func (v *Vector) Set(t Trait, value float64) {
	if f := v.field(t); f != nil {
		*f = clamp01(value)
	}
}

// Add shifts t by delta, clamped to [0, 1].
func (v *Vector) Add(t Trait, delta float64) {
	v.Set(t, v.Get(t)+delta)
}

// Clamp returns v with every trait forced into [0, 1].
func (v Vector) Clamp() Vector {
	for _, t := range Traits() {
		v.Set(t, v.Get(t))
	}
	return v
}

// Map returns the vector keyed by trait name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(traitNames))
	for _, t := range Traits() {
		out[t.String()] = v.Get(t)
	}
	return out
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
