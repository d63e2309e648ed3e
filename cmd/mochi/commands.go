package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alex/mochi/internal/companion"
	"github.com/alex/mochi/internal/personality"
	"github.com/alex/mochi/internal/sense"
)

var (
	decideSilence     time.Duration
	decidePresent     bool
	decideBusy        bool
	decideScreen      bool
	decideDiscoveries []string
	decideHint        string

	traitsExport string
	traitsImport string

	configWrite bool
)

var hints = []sense.Hint{sense.HintHappy, sense.HintSad, sense.HintAngry, sense.HintFearful, sense.HintNeutral}

// decideCmd runs one cycle against a described situation.
var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run one decision cycle and print what mochi would do",
	Example: `  mochi decide --silence 30m
  mochi decide --present --busy
  mochi decide --present --discover notes.txt --hint happy`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hint := sense.Hint(decideHint)
		if hint != sense.HintNone && !slices.Contains(hints, hint) {
			return fmt.Errorf("unknown hint %q", decideHint)
		}

		now := time.Now()
		c, err := newCore(cfg, logger, now)
		if err != nil {
			return err
		}

		sc := sense.New().
			WithUserPresent(decidePresent).
			WithUserBusy(decideBusy).
			WithScreenActive(decideScreen).
			WithDiscoveries(decideDiscoveries...).
			WithEmotionHint(hint)
		if decideSilence > 0 {
			sc = sc.WithLastInteraction(now.Add(-decideSilence))
		}

		out := cmd.OutOrStdout()
		comp := c.companion(cfg, logger, now,
			companion.WithExecutor(newExecutor(cmd.Context(), cfg, logger, out)),
			companion.WithContextSource(fixedContext(sc)))

		turn, err := comp.Step(cmd.Context(), now)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "feeling:  %s\n", turn.Mood.Describe())
		if turn.Pattern != "" {
			fmt.Fprintf(out, "pattern:  %s (%q)\n", turn.Pattern, turn.Utterance)
		}
		if !turn.Decided {
			fmt.Fprintln(out, "decision: nothing to do")
			return nil
		}
		fmt.Fprintf(out, "decision: %s, %s priority: %s\n", turn.Action.Kind, turn.Action.Priority, turn.Action.Description)

		fmt.Fprintln(out, "\nconsidered:")
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, s := range c.maker.ScoreCandidates(sc, now) {
			fmt.Fprintf(tw, "  %s\t%.2f\t%s\n", s.Action.Kind, s.Score, s.Action.Description)
		}
		return tw.Flush()
	},
}

// traitsCmd shows, exports or imports the trait vector.
var traitsCmd = &cobra.Command{
	Use:   "traits",
	Short: "Show, export or import the personality traits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if traitsImport != "" {
			if cfg.Personality.TraitsFile == "" {
				return fmt.Errorf("personality.traits_file is not configured")
			}
			v, err := personality.LoadVector(traitsImport)
			if err != nil {
				return err
			}
			if err := personality.SaveVector(cfg.Personality.TraitsFile, v); err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %s into %s\n", traitsImport, cfg.Personality.TraitsFile)
		}

		v, err := loadTraits(cfg.Personality.TraitsFile, logger)
		if err != nil {
			return err
		}

		if traitsExport != "" {
			if err := personality.SaveVector(traitsExport, v); err != nil {
				return err
			}
			fmt.Fprintf(out, "exported traits to %s\n", traitsExport)
			return nil
		}

		printTraits(out, v)
		return nil
	},
}

func printTraits(out io.Writer, v personality.Vector) {
	fmt.Fprintf(out, "%s is %s\n\n", displayName(cfg), v.Describe())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range personality.Traits() {
		fmt.Fprintf(tw, "  %s\t%.3f\n", t, v.Get(t))
	}
	_ = tw.Flush()
}

// configCmd prints or writes the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configWrite {
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
			return nil
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
