package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alex/mochi/internal/companion"
	"github.com/alex/mochi/internal/perception"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep mochi company in the terminal",
	Long: `Starts the companion loop. Every line typed on stdin is something you do
to mochi: praise it, scold it, ask it something, play with it, or tell it
you are busy, away or back. Type "help" for the full list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), os.Stdin, cmd.OutOrStdout())
	},
}

// session is one interactive run.
type session struct {
	comp *companion.Companion
	out  io.Writer
	now  func() time.Time
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	now := time.Now()
	c, err := newCore(cfg, logger, now)
	if err != nil {
		return err
	}

	opts := []companion.Option{
		companion.WithExecutor(newExecutor(ctx, cfg, logger, out)),
		companion.WithTurnHook(func(t companion.Turn) { printTurn(out, t) }),
	}

	if len(cfg.Perception.WatchDirs) > 0 {
		watcher, err := perception.NewFileWatcher(cfg.Perception.WatchDirs,
			perception.WithMaxChanges(cfg.Perception.MaxChanges),
			perception.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("stopping file watcher", zap.Error(err))
			}
		}()
		opts = append(opts, companion.WithContextSource(watcher))
	}

	s := &session{
		comp: c.companion(cfg, logger, now, opts...),
		out:  out,
		now:  time.Now,
	}

	fmt.Fprintf(out, "=== %s ===\n\n", displayName(cfg))
	s.printStatus()
	printHelp(out)

	lines := make(chan string)
	go readInput(ctx, in, out, lines)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.comp.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok || !s.handle(gctx, line) {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

// handle applies one input line and reports whether the session goes on.
func (s *session) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(strings.ToLower(input))
	now := s.now()

	switch input {
	case "":
		return true
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Bye!")
		return false
	case "help", "?":
		printHelp(s.out)
	case "status", "s":
		s.printStatus()
	case "busy":
		s.comp.SetPresence(true, true, now)
		fmt.Fprintln(s.out, "  (you look busy)")
	case "away":
		s.comp.SetPresence(false, false, now)
		fmt.Fprintln(s.out, "  (you step away)")
	case "back":
		s.comp.SetPresence(true, false, now)
		fmt.Fprintln(s.out, "  (you are back)")
	case "sleep":
		s.comp.Sleep(now)
		fmt.Fprintln(s.out, "  zzz...")
	case "wake":
		s.comp.Wake(now)
		fmt.Fprintln(s.out, "  *yawns and stretches*")
	case "step":
		if _, err := s.comp.Step(ctx, now); err != nil {
			fmt.Fprintf(s.out, "  step failed: %v\n", err)
		}
	default:
		cue, ok := companion.ParseCue(input)
		if !ok {
			fmt.Fprintf(s.out, "Unknown input: %s (type 'help' for options)\n", input)
			return true
		}
		s.comp.Observe(companion.Stimulus{Cue: cue, At: now})
		fmt.Fprintf(s.out, "  [%s] feeling %s\n", cue, s.comp.Status().Feeling)
	}
	return true
}

func printTurn(out io.Writer, t companion.Turn) {
	if t.Pattern != "" {
		fmt.Fprintf(out, "\n  [%s] %s\n", t.Pattern, t.Utterance)
	}
	if t.Decided {
		fmt.Fprintf(out, "  [decide] %s (%s)\n", t.Action.Kind, t.Action.Priority)
	}
}

func (s *session) printStatus() {
	st := s.comp.Status()

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "  Feeling:     %s\n", st.Feeling)
	for _, r := range st.Mood.Secondary {
		fmt.Fprintf(s.out, "  Also:        %s (%.2f)\n", r.Kind, r.Intensity)
	}
	fmt.Fprintf(s.out, "  Temperament: %s\n", st.Temperament)
	fmt.Fprintf(s.out, "  Present:     %v (busy: %v)\n", st.Present, st.Busy)
	fmt.Fprintf(s.out, "  Decisions:   %d\n", st.Decisions.Decisions)
	for _, r := range s.comp.Maker().Recent(3) {
		fmt.Fprintf(s.out, "    %s  %s (%.2f)\n", r.At.Format(time.TimeOnly), r.Action.Kind, r.Score)
	}
	if len(st.Decisions.AttentionTargets) > 0 {
		fmt.Fprintf(s.out, "  Noticed:     %s\n", strings.Join(st.Decisions.AttentionTargets, ", "))
	}
	fmt.Fprintln(s.out)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Things you can do:")
	fmt.Fprintln(out, "  praise, good         - praise mochi")
	fmt.Fprintln(out, "  criticism, scold     - scold mochi")
	fmt.Fprintln(out, "  question, ask        - ask mochi something")
	fmt.Fprintln(out, "  play                 - play together")
	fmt.Fprintln(out, "  hello, hi            - just say hi")
	fmt.Fprintln(out, "  busy, away, back     - tell mochi where you are")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  status, s            - show the current state")
	fmt.Fprintln(out, "  step                 - run a decision cycle now")
	fmt.Fprintln(out, "  sleep, wake          - put mochi to bed or wake it up")
	fmt.Fprintln(out, "  help, ?              - show this help")
	fmt.Fprintln(out, "  quit, exit, q        - exit")
	fmt.Fprintln(out)
}

func readInput(ctx context.Context, in io.Reader, out io.Writer, ch chan<- string) {
	defer close(ch)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		select {
		case ch <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
