package main

import (
	"os"

	"github.com/Pickles91/ContiguousMemoryAllocation/record"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var exportPath string

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportPath, "output", "o", "", "File to write (stdout if unset)")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [config]",
		Short: "Simulate a workload and export every snapshot as JSON",
		Long: `The export command simulates every strategy over one workload and writes the
complete run as JSON: the workload, a summary per strategy, and the layout and
pending queue of every strategy at every tick.

Example:
  memsim export --seed 7 -o run.json sim.conf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args)
		},
	}
	return cmd
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	logger := newLogger()
	_, results, err := simulate(cmd, args, logger)
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportPath != "" {
		out, err = os.Create(exportPath)
		if err != nil {
			return errors.Wrap(err, "failed to create export file")
		}
		defer func() {
			err = errors.CombineErrors(err, out.Close())
		}()
	}

	err = record.Export(out, results)
	if err != nil {
		return err
	}

	if exportPath != "" {
		logger.Info("Exported run", slog.String("Path", exportPath), slog.String("RunID", results.RunID.String()))
	}
	return nil
}
