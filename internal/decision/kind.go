// Package decision chooses the companion's next action: it reads the
// situation from context, mood and temperament, re-weighs its standing
// goals, proposes candidate actions from a fixed rule table, scores them
// and picks one.
package decision

import (
	"fmt"
	"time"

	"github.com/alex/mochi/internal/personality"
)

// Kind is what an action does.
type Kind uint8

const (
	Communicate Kind = iota + 1
	Explore
	Observe
	React
	Plan
	Rest
	Play
	SeekAttention
)

var kindNames = [...]string{
	Communicate:   "communicate",
	Explore:       "explore",
	Observe:       "observe",
	React:         "react",
	Plan:          "plan",
	Rest:          "rest",
	Play:          "play",
	SeekAttention: "seek_attention",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Communicate && k <= SeekAttention
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a name onto an action kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns every action kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := Communicate; k <= SeekAttention; k++ {
		out = append(out, k)
	}
	return out
}

// Priority ranks actions and goals.
type Priority uint8

const (
	Low Priority = iota + 1
	Medium
	High
	Urgent
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Urgent:
		return "urgent"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func clampPriority(v int) Priority {
	if v < int(Low) {
		return Low
	}
	if v > int(Urgent) {
		return Urgent
	}
	return Priority(v)
}

// Params are the optional hints an action carries for its executor.
type Params struct {
	Approach            string `json:"approach,omitempty"`
	Style               string `json:"style,omitempty"`
	Mood                string `json:"mood,omitempty"`
	Tone                string `json:"tone,omitempty"`
	Topic               string `json:"topic,omitempty"`
	Exploration         string `json:"exploration,omitempty"`
	ObservationScope    string `json:"observation_scope,omitempty"`
	EmotionalExpression string `json:"emotional_expression,omitempty"`
	SeekComfort         bool   `json:"seek_comfort,omitempty"`
}

// Action describes what to do next, not how.
type Action struct {
	Kind              Kind          `json:"kind"`
	Description       string        `json:"description"`
	Priority          Priority      `json:"priority"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Params            Params        `json:"params"`
}

// Outcome is what an executor learned from carrying out an action.
type Outcome struct {
	Success  float64             // 0 failed .. 1 fully succeeded
	Reaction personality.Outcome // how the user took it
}
