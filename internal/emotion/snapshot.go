package emotion

import (
	"fmt"
	"slices"
)

// Reading is one emotion's level at snapshot time.
type Reading struct {
	Kind      Kind    `json:"kind"`
	Intensity float64 `json:"intensity"`
}

// Snapshot is the read-only view of the mood handed to the rest of the
// system each cycle.
type Snapshot struct {
	Dominant      Kind      `json:"dominant"`
	Intensity     float64   `json:"intensity"`
	Secondary     []Reading `json:"secondary"`
	RecentSources []string  `json:"recent_sources"`
}

// Is reports whether the dominant emotion is k.
func (s Snapshot) Is(k Kind) bool { return s.Dominant == k }

// Level returns the intensity of k if it is dominant or secondary.
func (s Snapshot) Level(k Kind) float64 {
	if s.Dominant == k {
		return s.Intensity
	}
	for _, r := range s.Secondary {
		if r.Kind == k {
			return r.Intensity
		}
	}
	return 0
}

// Snapshot returns the dominant emotion, its secondaries, and the sources
// that most recently fed the dominant one. Equal intensities resolve to
// the emotion created first.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.orderLocked()
	if len(order) == 0 {
		return Snapshot{Dominant: None}
	}

	dominant := e.active[order[0]]
	for _, k := range order[1:] {
		if s := e.active[k]; s.Intensity > dominant.Intensity {
			dominant = s
		}
	}

	snap := Snapshot{
		Dominant:  dominant.Kind,
		Intensity: dominant.Intensity,
	}
	for _, k := range order {
		s := e.active[k]
		if k == dominant.Kind || s.Intensity < secondaryThreshold {
			continue
		}
		snap.Secondary = append(snap.Secondary, Reading{Kind: k, Intensity: s.Intensity})
	}
	if n := len(dominant.Sources); n > recentSources {
		snap.RecentSources = slices.Clone(dominant.Sources[n-recentSources:])
	} else {
		snap.RecentSources = slices.Clone(dominant.Sources)
	}
	return snap
}

var feelingWords = map[Kind]string{
	None:        "calm",
	Joy:         "happy",
	Sadness:     "sad",
	Anger:       "angry",
	Fear:        "scared",
	Surprise:    "surprised",
	Disgust:     "disgusted",
	Curiosity:   "curious",
	Excitement:  "excited",
	Loneliness:  "lonely",
	Contentment: "content",
}

func degree(intensity float64) string {
	switch {
	case intensity >= 0.8:
		return "very"
	case intensity >= 0.6:
		return "quite"
	case intensity >= 0.4:
		return "somewhat"
	case intensity >= 0.2:
		return "slightly"
	default:
		return "a little"
	}
}

// Describe renders the snapshot as a short phrase, e.g.
// "quite curious, and a bit happy".
func (s Snapshot) Describe() string {
	desc := fmt.Sprintf("%s %s", degree(s.Intensity), feelingWords[s.Dominant])
	if len(s.Secondary) > 0 {
		desc += ", and a bit " + feelingWords[s.Secondary[0].Kind]
	}
	return desc
}

// Describe is shorthand for Snapshot().Describe().
func (e *Engine) Describe() string {
	return e.Snapshot().Describe()
}
