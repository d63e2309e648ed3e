// Package sense defines the perception snapshot handed to the companion
// core once per decision cycle.
package sense

import (
	"slices"
	"time"
)

// SchemaVersion is bumped whenever a field is added to Context.
const SchemaVersion = 1

// Hint is a perceived emotional tone of the user, as reported by an
// upstream analyzer (voice, face, text).
type Hint string

const (
	HintNone    Hint = ""
	HintHappy   Hint = "happy"
	HintSad     Hint = "sad"
	HintAngry   Hint = "angry"
	HintFearful Hint = "fearful"
	HintNeutral Hint = "neutral"
)

// Distressed reports whether the hint names a negative tone.
func (h Hint) Distressed() bool {
	switch h {
	case HintSad, HintAngry, HintFearful:
		return true
	}
	return false
}

// Context is a closed snapshot of what the perception layer saw. Every
// field is optional; the zero value means "not observed".
type Context struct {
	Version             int
	UserPresent         bool
	UserBusy            bool
	LastInteractionAt   time.Time // zero: no interaction known
	NewDiscoveries      []string
	DiscoveredContent   bool
	NewContentAvailable bool
	ScreenActive        bool
	FileChanges         []string
	EmotionHint         Hint
}

// New returns an empty context stamped with the current schema version.
func New() Context {
	return Context{Version: SchemaVersion}
}

// WithUserPresent sets presence and returns the context for chaining.
func (c Context) WithUserPresent(present bool) Context {
	c.UserPresent = present
	return c
}

// WithUserBusy sets the busy flag and returns the context for chaining.
func (c Context) WithUserBusy(busy bool) Context {
	c.UserBusy = busy
	return c
}

// WithLastInteraction sets the last interaction time.
func (c Context) WithLastInteraction(at time.Time) Context {
	c.LastInteractionAt = at
	return c
}

// WithDiscoveries appends discovery labels and marks content as discovered.
func (c Context) WithDiscoveries(items ...string) Context {
	if len(items) == 0 {
		return c
	}
	c.NewDiscoveries = append(slices.Clone(c.NewDiscoveries), items...)
	c.DiscoveredContent = true
	return c
}

// WithNewContent sets the new-content flag.
func (c Context) WithNewContent(available bool) Context {
	c.NewContentAvailable = available
	return c
}

// WithScreenActive sets the screen activity flag.
func (c Context) WithScreenActive(active bool) Context {
	c.ScreenActive = active
	return c
}

// WithFileChanges appends changed paths.
func (c Context) WithFileChanges(paths ...string) Context {
	if len(paths) == 0 {
		return c
	}
	c.FileChanges = append(slices.Clone(c.FileChanges), paths...)
	return c
}

// WithEmotionHint sets the perceived user tone.
func (c Context) WithEmotionHint(h Hint) Context {
	c.EmotionHint = h
	return c
}

// SilenceSince returns how long it has been since the last interaction.
// The second result is false when no interaction is known.
func (c Context) SilenceSince(now time.Time) (time.Duration, bool) {
	if c.LastInteractionAt.IsZero() {
		return 0, false
	}
	d := now.Sub(c.LastInteractionAt)
	if d < 0 {
		d = 0
	}
	return d, true
}

// HasNewInformation reports whether anything new was perceived this cycle.
func (c Context) HasNewInformation() bool {
	return c.NewContentAvailable || c.DiscoveredContent || len(c.NewDiscoveries) > 0
}

// Merge overlays other onto c: booleans are OR-ed, lists appended, and the
// later of the two interaction times kept.
func (c Context) Merge(other Context) Context {
	out := c
	if out.Version == 0 {
		out.Version = other.Version
	}
	out.UserPresent = c.UserPresent || other.UserPresent
	out.UserBusy = c.UserBusy || other.UserBusy
	if other.LastInteractionAt.After(c.LastInteractionAt) {
		out.LastInteractionAt = other.LastInteractionAt
	}
	out.NewDiscoveries = append(slices.Clone(c.NewDiscoveries), other.NewDiscoveries...)
	out.DiscoveredContent = c.DiscoveredContent || other.DiscoveredContent
	out.NewContentAvailable = c.NewContentAvailable || other.NewContentAvailable
	out.ScreenActive = c.ScreenActive || other.ScreenActive
	out.FileChanges = append(slices.Clone(c.FileChanges), other.FileChanges...)
	if other.EmotionHint != HintNone {
		out.EmotionHint = other.EmotionHint
	}
	return out
}
