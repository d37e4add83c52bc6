package main

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/server"
	"github.com/spf13/cobra"
)

var port int

func init() {
	cmd := newServeCmd()
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (a free port if unset)")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Simulate a workload and serve the results over HTTP",
		Long: `The serve command simulates every strategy over one workload and serves the
results as JSON until interrupted.

Routes:
  /api/run                               run id, memory size and workload
  /api/summary                           summary per strategy
  /api/strategies                        strategies and their tick counts
  /api/strategies/{name}                 every snapshot of one strategy
  /api/strategies/{name}/ticks/{tick}    one snapshot
  /api/frames/{index}                    one playback frame as text

Example:
  memsim serve --port 8080 sim.conf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args)
		},
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	_, results, err := simulate(cmd, args, logger)
	if err != nil {
		return err
	}

	return server.New(logger, results).WithPortNumber(port).ListenAndServe(cmd.Context())
}
