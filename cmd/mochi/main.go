package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex/mochi/internal/config"
	"github.com/alex/mochi/internal/logging"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool
	seed       int64

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mochi",
	Short: "mochi - a small digital companion with feelings",
	Long: `mochi is a desktop companion that feels, grows a personality and decides
what to do next on its own.

Run "mochi run" to keep it company in your terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Companion.Seed = seed
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mochi %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mochi.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")

	decideCmd.Flags().DurationVar(&decideSilence, "silence", 0, "Time since the user last interacted")
	decideCmd.Flags().BoolVar(&decidePresent, "present", false, "The user is at the computer")
	decideCmd.Flags().BoolVar(&decideBusy, "busy", false, "The user is busy")
	decideCmd.Flags().BoolVar(&decideScreen, "screen", false, "The screen is active")
	decideCmd.Flags().StringSliceVar(&decideDiscoveries, "discover", nil, "Newly discovered items")
	decideCmd.Flags().StringVar(&decideHint, "hint", "", "Upstream emotion hint (happy, sad, angry, fearful, neutral)")

	traitsCmd.Flags().StringVar(&traitsExport, "export", "", "Write the trait vector to this YAML file")
	traitsCmd.Flags().StringVar(&traitsImport, "import", "", "Validate a YAML trait vector and make it the configured one")

	configCmd.Flags().BoolVar(&configWrite, "write", false, "Write the effective config to --config")

	rootCmd.AddCommand(runCmd, decideCmd, traitsCmd, configCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
