package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/Pickles91/ContiguousMemoryAllocation/config"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	configPath  string
	seed        int64
	maxTicks    int
	verbose     bool
	memoryMax   int
	procSizeMax int
	numProc     int
	maxProcTime int
)

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Compare contiguous memory allocation strategies",
	Long: `memsim simulates best-fit, worst-fit and next-fit placement over one randomly
generated workload of processes. Each strategy runs independently, tick by tick,
until every process has been placed and has expired.

The workload is described by a config file of KEY = VALUE lines:
  memory_max     size of memory in KB (default 1024)
  proc_size_max  largest process size in KB (default 1024)
  num_proc       number of processes (default 10)
  max_proc_time  longest process lifetime in ms (default 10000, one tick is 1000 ms)`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file to load")
	flags.Int64Var(&seed, "seed", 0, "Workload seed (random if unset)")
	flags.IntVar(&maxTicks, "max-ticks", 0, "Stop each strategy after this many ticks (0 for no limit)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.IntVar(&memoryMax, "memory-max", 0, "Override memory_max")
	flags.IntVar(&procSizeMax, "proc-size-max", 0, "Override proc_size_max")
	flags.IntVar(&numProc, "num-proc", 0, "Override num_proc")
	flags.IntVar(&maxProcTime, "max-proc-time", 0, "Override max_proc_time")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.HandlerOptions{Level: level}.NewTextHandler(os.Stderr))
}

// loadConfig reads the config file named by --config or the first argument, then applies any
// override flags
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	path := configPath
	if path == "" && len(args) > 0 {
		path = args[0]
	}

	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	overrides := []struct {
		name   string
		value  int
		target *int
	}{
		{"memory-max", memoryMax, &cfg.MemoryMax},
		{"proc-size-max", procSizeMax, &cfg.ProcSizeMax},
		{"num-proc", numProc, &cfg.NumProc},
		{"max-proc-time", maxProcTime, &cfg.MaxProcTime},
	}
	for _, override := range overrides {
		if flags.Changed(override.name) {
			*override.target = override.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// simulate loads the configuration, generates the workload and runs every strategy over it
func simulate(cmd *cobra.Command, args []string, logger *slog.Logger) (config.Config, *sim.Results, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return config.Config{}, nil, err
	}

	workloadSeed := seed
	if !cmd.Flags().Changed("seed") {
		workloadSeed = time.Now().UnixNano()
	}
	logger.Info("Generating workload", slog.Int64("Seed", workloadSeed), slog.Int("Processes", cfg.NumProc))

	requests := sim.GenerateWorkload(rand.New(rand.NewSource(workloadSeed)), cfg)
	results, err := sim.Run(cmd.Context(), sim.Options{
		Logger:     logger,
		MemorySize: cfg.MemoryMax,
		MaxTicks:   maxTicks,
	}, requests)
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, results, nil
}
