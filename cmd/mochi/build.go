package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alex/mochi/internal/chance"
	"github.com/alex/mochi/internal/companion"
	"github.com/alex/mochi/internal/config"
	"github.com/alex/mochi/internal/decision"
	"github.com/alex/mochi/internal/emotion"
	"github.com/alex/mochi/internal/llm"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

// core is the emotion engine, personality and decision maker of one
// companion.
type core struct {
	engine *emotion.Engine
	traits *personality.System
	maker  *decision.Maker
}

func newCore(cfg *config.Config, log *zap.Logger, now time.Time) (*core, error) {
	s := cfg.Companion.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	log.Debug("seeding random sources", zap.Int64("seed", s))

	vector, err := loadTraits(cfg.Personality.TraitsFile, log)
	if err != nil {
		return nil, err
	}

	engine := emotion.New(now,
		emotion.WithSource(chance.New(s)),
		emotion.WithLogger(log),
		emotion.WithDefaultDuration(cfg.GetEmotionDuration()),
		emotion.WithFluctuationProbability(cfg.Emotion.FluctuationProbability))
	traits := personality.New(
		personality.WithLogger(log),
		personality.WithVector(vector),
		personality.WithSource(chance.New(s+1)))
	maker := decision.New(engine, traits,
		decision.WithLogger(log),
		decision.WithSource(chance.New(s+2)))

	return &core{engine: engine, traits: traits, maker: maker}, nil
}

// loadTraits reads the configured trait file. A missing file means the
// default temperament.
func loadTraits(path string, log *zap.Logger) (personality.Vector, error) {
	if path == "" {
		return personality.DefaultVector(), nil
	}
	v, err := personality.LoadVector(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("traits file not found, using default temperament", zap.String("path", path))
		return personality.DefaultVector(), nil
	}
	return v, err
}

func (c *core) companion(cfg *config.Config, log *zap.Logger, now time.Time, opts ...companion.Option) *companion.Companion {
	opts = append([]companion.Option{
		companion.WithLogger(log),
		companion.WithBirth(cfg.GetBorn(now)),
		companion.WithIntervals(cfg.GetUpdateInterval(), cfg.GetDecideInterval(), cfg.GetGrowthInterval()),
	}, opts...)
	return companion.New(c.engine, c.traits, c.maker, opts...)
}

// displayName capitalizes the configured name.
func displayName(cfg *config.Config) string {
	if cfg.Name == "" {
		return "Mochi"
	}
	return strings.ToUpper(cfg.Name[:1]) + cfg.Name[1:]
}

// newExecutor voices actions through Ollama when it is enabled and
// reachable, and through canned lines otherwise.
func newExecutor(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) *llm.Executor {
	name := displayName(cfg)
	opts := []llm.ExecutorOption{
		llm.WithName(name),
		llm.WithExecutorLogger(log),
		llm.WithCallTimeout(cfg.GetLLMTimeout()),
		llm.WithSpeaker(func(u llm.Utterance) {
			if u.Source == llm.SourceLocal {
				fmt.Fprintf(out, "  %s %s\n", name, u.Text)
				return
			}
			fmt.Fprintf(out, "  %s: %s\n", name, u.Text)
		}),
	}
	if !cfg.LLM.Enabled {
		return llm.NewExecutor(nil, opts...)
	}

	client := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.GetLLMTimeout(),
		Logger:  log,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		log.Warn("cannot connect to Ollama, using canned lines",
			zap.String("url", cfg.LLM.BaseURL), zap.Error(err))
		return llm.NewExecutor(nil, opts...)
	}

	found, available, err := client.CheckModel(pingCtx)
	switch {
	case err != nil:
		log.Warn("could not check models, continuing anyway", zap.Error(err))
	case !found:
		log.Warn("model not installed, using canned lines",
			zap.String("model", client.Model()),
			zap.Strings("available", available),
			zap.String("hint", "ollama pull "+client.Model()))
		return llm.NewExecutor(nil, opts...)
	}

	log.Info("connected to Ollama", zap.String("model", client.Model()))
	return llm.NewExecutor(client, opts...)
}

// fixedContext is a perception source that always reports the same thing.
type fixedContext sense.Context

func (f fixedContext) Context(time.Time) sense.Context { return sense.Context(f) }
