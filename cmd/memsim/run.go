package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Pickles91/ContiguousMemoryAllocation/playback"
	"github.com/spf13/cobra"
)

var (
	autoPlay bool
	plain    bool
	interval time.Duration
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&autoPlay, "auto", false, "Advance playback on a timer instead of waiting for input")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print frames as plain text instead of the interactive player")
	cmd.Flags().DurationVar(&interval, "interval", playback.DefaultInterval, "Time each frame is shown in auto mode")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Simulate a workload and play the results back",
		Long: `The run command simulates every strategy over one workload and then plays the
snapshots back side by side, one tick per frame.

By default playback uses an interactive terminal player. With --plain, frames are
printed as text and each one waits for enter, unless auto mode is chosen.

Example:
  memsim run sim.conf
  memsim run --plain --auto --interval 500ms --seed 42 sim.conf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, results, err := simulate(cmd, args, logger)
	if err != nil {
		return err
	}

	if !plain {
		return playback.RunTUI(results, interval, autoPlay)
	}

	fmt.Fprintf(os.Stdout, "Loaded config: %+v\n", cfg)

	player := playback.NewTextPlayer(os.Stdout, os.Stdin, interval)
	if cmd.Flags().Changed("auto") {
		player.SetAuto(autoPlay)
	} else if err := player.PromptAuto(); err != nil {
		return err
	}

	err = player.Play(cmd.Context(), playback.BuildFrames(results))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, playback.RenderSummary(results.Summarize()))
	return nil
}
