package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlag(f *pflag.Flag) {
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}

func execute(t *testing.T, args ...string) error {
	// Flag values live in package variables and would leak between invocations
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(resetFlag)
	}
	rootCmd.PersistentFlags().VisitAll(resetFlag)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	return rootCmd.ExecuteContext(context.Background())
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "sim.conf")
	require.NoError(t, os.WriteFile(configFile, []byte("memory_max = 64\nproc_size_max = 32\nnum_proc = 5\nmax_proc_time = 3000\n"), 0o600))

	output := filepath.Join(dir, "run.json")
	require.NoError(t, execute(t, "export", "--seed", "3", "-o", output, configFile))

	contents, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"MemorySize":64`)
	require.Contains(t, string(contents), `"Strategies":{"BestFit":`)
}

func TestExportCommandIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	require.NoError(t, execute(t, "export", "--seed", "11", "--memory-max", "128", "--proc-size-max", "50", "-o", first))
	require.NoError(t, execute(t, "export", "--seed", "11", "--memory-max", "128", "--proc-size-max", "50", "-o", second))

	firstContents, err := os.ReadFile(first)
	require.NoError(t, err)
	secondContents, err := os.ReadFile(second)
	require.NoError(t, err)

	// Run ids differ between runs, and everything after the header must match
	index := bytes.Index(firstContents, []byte(`"MemorySize"`))
	require.Positive(t, index)
	require.Equal(t, firstContents[index:], secondContents[index:])
}

func TestTraceCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "run.sqlite3")
	require.NoError(t, execute(t, "trace", "--seed", "5", "--memory-max", "256", "--proc-size-max", "64", "-o", output))

	_, err := os.Stat(output)
	require.NoError(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	err := execute(t, "export", "--memory-max", "16", "--proc-size-max", "32", "-o", filepath.Join(t.TempDir(), "x.json"))
	require.ErrorContains(t, err, "invalid configuration")

	err = execute(t, "export", filepath.Join(t.TempDir(), "missing.conf"))
	require.ErrorContains(t, err, "could not read config file")
}
