package main

import (
	"fmt"
	"os"

	"github.com/Pickles91/ContiguousMemoryAllocation/record"
	"github.com/spf13/cobra"
)

var tracePath string

func init() {
	cmd := newTraceCmd()
	cmd.Flags().StringVarP(&tracePath, "output", "o", "", "Database file to create (named after the run if unset)")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [config]",
		Short: "Simulate a workload and record every snapshot in a SQLite database",
		Long: `The trace command simulates every strategy over one workload and writes each
snapshot to a new SQLite database with the tables run, request, snapshot_span and
snapshot_pending. The database must not exist yet.

Example:
  memsim trace sim.conf
  memsim trace -o run.sqlite3 --seed 7 sim.conf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, args)
		},
	}
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	_, results, err := simulate(cmd, args, logger)
	if err != nil {
		return err
	}

	path, err := record.Trace(logger, tracePath, results)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, path)
	return nil
}
