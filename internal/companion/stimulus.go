package companion

import (
	"time"

	"github.com/alex/mochi/internal/emotion"
)

// Cue is a kind of user stimulus the host can report.
type Cue uint8

const (
	CuePraise Cue = iota + 1
	CueCriticism
	CueQuestion
	CuePlay
	CueInteraction
)

var cueNames = map[Cue]string{
	CuePraise:      "praise",
	CueCriticism:   "criticism",
	CueQuestion:    "question",
	CuePlay:        "play",
	CueInteraction: "interaction",
}

var cueAliases = map[string]Cue{
	"praise":      CuePraise,
	"good":        CuePraise,
	"criticism":   CueCriticism,
	"scold":       CueCriticism,
	"question":    CueQuestion,
	"ask":         CueQuestion,
	"play":        CuePlay,
	"interaction": CueInteraction,
	"hello":       CueInteraction,
	"hi":          CueInteraction,
}

func (c Cue) String() string {
	if n, ok := cueNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCue maps a cue name or alias onto a cue.
func ParseCue(name string) (Cue, bool) {
	c, ok := cueAliases[name]
	return c, ok
}

// Stimulus is one thing the user did.
type Stimulus struct {
	Cue Cue
	At  time.Time
}

// cueTriggers are the emotions each cue stirs.
var cueTriggers = map[Cue][]emotion.Trigger{
	CuePraise:      {{Kind: emotion.Joy, Intensity: 0.6, Source: "user_praise"}},
	CueCriticism:   {{Kind: emotion.Sadness, Intensity: 0.5, Source: "user_criticism"}},
	CueQuestion:    {{Kind: emotion.Curiosity, Intensity: 0.7, Source: "user_question"}},
	CuePlay:        {{Kind: emotion.Excitement, Intensity: 0.6, Source: "play_invitation"}, {Kind: emotion.Joy, Intensity: 0.3, Source: "play_invitation"}},
	CueInteraction: {{Kind: emotion.Joy, Intensity: 0.6, Source: "companionship"}},
}

// Emotions stirred by what perception reports.
var (
	discoveryTrigger = emotion.Trigger{Kind: emotion.Excitement, Intensity: 0.8, Source: "discovery"}
	changeTrigger    = emotion.Trigger{Kind: emotion.Curiosity, Intensity: 0.5, Source: "environment"}
)
