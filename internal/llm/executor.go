package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/decision"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/personality"
)

// Generator produces text from a system and user prompt. *Client is one.
type Generator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Source says where an utterance came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	SourceLocal    Source = "local"
)

// Utterance is what the companion says or does for one action.
type Utterance struct {
	Action decision.Kind
	Text   string
	Source Source
}

// Executor carries out decided actions. Spoken kinds go through the model,
// the rest are rendered locally.
type Executor struct {
	gen     Generator
	name    string
	timeout time.Duration
	say     func(Utterance)
	rng     chance.Source
	log     *zap.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithName sets the name the companion speaks as.
func WithName(name string) ExecutorOption {
	return func(e *Executor) {
		if name != "" {
			e.name = name
		}
	}
}

// WithSpeaker sets the hook that receives every utterance.
func WithSpeaker(say func(Utterance)) ExecutorOption {
	return func(e *Executor) { e.say = say }
}

// WithCallTimeout bounds a single model call.
func WithCallTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// WithExecutorSource sets the random source for fallback lines.
func WithExecutorSource(src chance.Source) ExecutorOption {
	return func(e *Executor) { e.rng = src }
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(l *zap.Logger) ExecutorOption {
	return func(e *Executor) { e.log = l.Named("executor") }
}

// NewExecutor creates an executor. A nil generator renders everything
// from templates.
func NewExecutor(gen Generator, opts ...ExecutorOption) *Executor {
	e := &Executor{
		gen:     gen,
		name:    "Mochi",
		timeout: 30 * time.Second,
		say:     func(Utterance) {},
		rng:     chance.New(0),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// spoken reports whether k is voiced through the model.
func spoken(k decision.Kind) bool {
	switch k {
	case decision.Communicate, decision.Explore, decision.SeekAttention, decision.Play:
		return true
	}
	return false
}

// neutral is reported for every executed action; user reactions arrive
// separately as feedback.
var neutral = decision.Outcome{Success: 0.5, Reaction: personality.OutcomeNeutral}

// Execute voices or renders a and hands the result to the speaker. Backend
// failures degrade to a templated line and are never returned.
func (e *Executor) Execute(ctx context.Context, a decision.Action, mood emotion.Snapshot, traits personality.Vector) (decision.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return decision.Outcome{}, err
	}

	if !spoken(a.Kind) {
		e.emit(Utterance{Action: a.Kind, Text: localLine(a), Source: SourceLocal})
		return neutral, nil
	}

	if e.gen != nil {
		text, err := e.voice(ctx, a, mood, traits)
		if err == nil {
			e.emit(Utterance{Action: a.Kind, Text: text, Source: SourceModel})
			return neutral, nil
		}
		if ctx.Err() != nil {
			return decision.Outcome{}, ctx.Err()
		}
		e.log.Warn("model unavailable, using fallback line",
			zap.Stringer("action", a.Kind), zap.Error(err))
	}

	e.emit(Utterance{Action: a.Kind, Text: e.fallbackLine(a, traits), Source: SourceFallback})
	return neutral, nil
}

func (e *Executor) emit(u Utterance) {
	e.log.Debug("utterance",
		zap.Stringer("action", u.Action),
		zap.String("source", string(u.Source)),
		zap.String("text", u.Text))
	e.say(u)
}

// reply is the JSON shape the model is asked for.
type reply struct {
	Say string `json:"say"`
}

func (e *Executor) voice(ctx context.Context, a decision.Action, mood emotion.Snapshot, traits personality.Vector) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.gen.GenerateJSON(ctx, e.systemPrompt(traits), buildPrompt(a, mood))
	if err != nil {
		return "", fmt.Errorf("generating utterance: %w", err)
	}

	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		if err := json.Unmarshal([]byte(extractJSON(raw)), &r); err != nil {
			return "", fmt.Errorf("parsing response %q: %w", raw, err)
		}
	}
	text := strings.TrimSpace(r.Say)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (e *Executor) systemPrompt(traits personality.Vector) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, a small digital companion living on the user's computer.\n", e.name)
	fmt.Fprintf(&sb, "You are %s.\n\n", traits.Describe())

	sb.WriteString("Traits (0 = not at all, 1 = completely):\n")
	for _, t := range personality.Traits() {
		fmt.Fprintf(&sb, "- %s: %.1f\n", t, traits.Get(t))
	}

	sb.WriteString("\nYou are not an assistant. You speak like a small, affectionate creature: ")
	sb.WriteString("one or two short sentences, no lists, no markdown.\n\n")
	sb.WriteString(`IMPORTANT: respond with ONLY valid JSON in this exact format:
{"say": "<what you say>"}`)

	return sb.String()
}

// buildPrompt describes the action and the mood it is taken in.
func buildPrompt(a decision.Action, mood emotion.Snapshot) string {
	var sb strings.Builder

	sb.WriteString("Current state:\n")
	fmt.Fprintf(&sb, "- Feeling: %s\n", mood.Describe())
	if len(mood.RecentSources) > 0 {
		fmt.Fprintf(&sb, "- Because of: %s\n", strings.Join(mood.RecentSources, ", "))
	}
	for _, r := range mood.Secondary {
		fmt.Fprintf(&sb, "- Also %s (%.1f)\n", r.Kind, r.Intensity)
	}

	fmt.Fprintf(&sb, "\nYou decided to %s: %s.\n", a.Kind, a.Description)

	p := a.Params
	hints := []struct{ name, value string }{
		{"approach", p.Approach},
		{"style", p.Style},
		{"mood", p.Mood},
		{"tone", p.Tone},
		{"topic", p.Topic},
		{"exploring", p.Exploration},
		{"expressing", p.EmotionalExpression},
	}
	for _, h := range hints {
		if h.value != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", h.name, strings.ReplaceAll(h.value, "_", " "))
		}
	}
	if p.SeekComfort {
		sb.WriteString("- you would like to be comforted\n")
	}

	sb.WriteString("\nSay ONE short thing to the user. Respond with JSON only.")
	return sb.String()
}

// extractJSON finds a JSON object in a string that may carry extra text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

var localLines = map[decision.Kind]string{
	decision.Observe: "*looks around quietly*",
	decision.React:   "*perks up*",
	decision.Plan:    "*thinks hard about something*",
	decision.Rest:    "*curls up and rests*",
}

func localLine(a decision.Action) string {
	if line, ok := localLines[a.Kind]; ok {
		return line
	}
	return "*" + a.Description + "*"
}

var fallbackLines = map[decision.Kind][]string{
	decision.Communicate: {
		"Hey! I was just thinking about you.",
		"Guess what? I have so much to tell you!",
	},
	decision.Explore: {
		"Ooh, something new! Let me take a look.",
		"What is this? I need to know more!",
	},
	decision.SeekAttention: {
		"Hello? Are you still there? I missed you.",
		"Psst... it's been so quiet. Talk to me?",
	},
	decision.Play: {
		"Let's play a game! You go first!",
		"Tag, you're it!",
	},
}

// fallbackLine picks a canned line and colors it with the temperament.
func (e *Executor) fallbackLine(a decision.Action, traits personality.Vector) string {
	lines, ok := fallbackLines[a.Kind]
	if !ok {
		return localLine(a)
	}
	line := chance.Pick(e.rng, lines)
	switch {
	case a.Params.SeekComfort:
		return "I feel a little sad... " + line
	case traits.Playfulness > 0.8:
		return line + " hehe"
	case traits.Empathy > 0.8:
		return line + " <3"
	}
	return line
}
