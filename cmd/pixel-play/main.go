package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/pixel-play/app"
	"github.com/lixenwraith/pixel-play/config"
	"github.com/lixenwraith/pixel-play/constants"
	"github.com/lixenwraith/pixel-play/engine"
	"github.com/lixenwraith/pixel-play/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pixel-play",
		Short:         "Watch colored pixels spread from a seed in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runInteractive(cfg)
		},
	}
	config.DefineFlags(rootCmd)
	rootCmd.AddCommand(headlessCommand(), defaultsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(cmd, file)
}

func runInteractive(cfg config.Config) error {
	logger, closeLog, err := logging.Setup(cfg.Log, true)
	if err != nil {
		return err
	}
	defer closeLog()

	// tcell reads the truecolor override from the environment at screen creation
	if strings.ToLower(cfg.Display.ColorMode) == "256" {
		_ = os.Setenv("TCELL_TRUECOLOR", "disable")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	// Runs after screen.Fini, so the trace lands on a restored terminal
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n\x1b[31mPIXEL-PLAY CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			panic(r)
		}
	}()
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := app.NewSession(cfg, engine.NewTimeProvider(), logger)
	defer session.Close()
	if cfg.Audio.Enabled {
		session.EnableAudio()
	}
	return session.RunInteractive(ctx, screen)
}

func headlessCommand() *cobra.Command {
	var out string
	var maxFrames int
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run one propagation on a simulated clock and save the result as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Snapshot.Path = out
			}

			logger, closeLog, err := logging.Setup(cfg.Log, false)
			if err != nil {
				return err
			}
			defer closeLog()

			session := app.NewSession(cfg, engine.NewMockTimeProvider(time.Now()), logger)
			sum, err := session.RunHeadless(maxFrames)
			if err != nil {
				return err
			}
			path, err := session.Snapshot()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"frames %d (%s simulated), iterations %d/%d, pixels %d, painted %d, restarts %d, stop: %s\n",
				sum.Frames, sum.Simulated, sum.Status.TotalIterations, sum.Status.MaxIterations,
				sum.Status.Pixels, sum.Painted, sum.Status.Restarts, sum.Status.LastStop)
			if sum.Truncated {
				fmt.Fprintf(cmd.OutOrStdout(), "frame limit %d reached before the run ended\n", maxFrames)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output path (defaults to snapshot.path)")
	cmd.Flags().IntVar(&maxFrames, "max-frames", constants.HeadlessFrameLimit, "upper bound on simulated frames")
	return cmd
}

func defaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the default configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Encode(cmd.OutOrStdout(), config.Default())
		},
	}
}
