package config

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// TickMillis is the length of one simulated tick in milliseconds. Process lifetimes are configured
// in milliseconds and simulated in ticks.
const TickMillis = 1000

const (
	KeyMemoryMax   = "memory_max"
	KeyProcSizeMax = "proc_size_max"
	KeyNumProc     = "num_proc"
	KeyMaxProcTime = "max_proc_time"
)

// Config describes the address space and the synthetic workload to simulate over it
type Config struct {
	// MemoryMax is the size of the address space in KB
	MemoryMax int
	// ProcSizeMax is the largest size a generated process may request, in KB
	ProcSizeMax int
	// NumProc is the number of processes in the workload
	NumProc int
	// MaxProcTime is the upper bound on a generated process lifetime, in milliseconds
	MaxProcTime int
}

// Default returns the configuration used for every key a config file leaves out
func Default() Config {
	return Config{
		MemoryMax:   1024,
		ProcSizeMax: 1024,
		NumProc:     10,
		MaxProcTime: 10_000,
	}
}

// Parse reads a configuration made of KEY = VALUE lines. Keys are case-insensitive, lines starting
// with # are comments, and unknown keys are ignored.
func Parse(contents string) (Config, error) {
	values, err := godotenv.Unmarshal(contents)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not parse config")
	}

	return fromValues(values)
}

// Load reads and parses the configuration file at path
func Load(path string) (Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not read config file %s", path)
	}

	config, err := fromValues(values)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid config file %s", path)
	}
	return config, nil
}

func fromValues(values map[string]string) (Config, error) {
	config := Default()
	fields := map[string]*int{
		KeyMemoryMax:   &config.MemoryMax,
		KeyProcSizeMax: &config.ProcSizeMax,
		KeyNumProc:     &config.NumProc,
		KeyMaxProcTime: &config.MaxProcTime,
	}

	for key, value := range values {
		field, known := fields[strings.ToLower(key)]
		if !known {
			continue
		}

		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return Config{}, errors.Wrapf(err, "couldn't parse %s", strings.ToUpper(key))
		}
		*field = parsed
	}

	return config, config.Validate()
}

// Validate checks that every value is positive and that every process the workload can generate
// would fit in an empty address space
func (c Config) Validate() error {
	checks := []struct {
		key   string
		value int
	}{
		{KeyMemoryMax, c.MemoryMax},
		{KeyProcSizeMax, c.ProcSizeMax},
		{KeyNumProc, c.NumProc},
		{KeyMaxProcTime, c.MaxProcTime},
	}

	for _, check := range checks {
		if check.value < 1 {
			return errors.Newf("%s must be positive, but is %d", check.key, check.value)
		}
	}

	if c.ProcSizeMax > c.MemoryMax {
		return errors.Newf("%s (%d) is larger than %s (%d)", KeyProcSizeMax, c.ProcSizeMax, KeyMemoryMax, c.MemoryMax)
	}

	return nil
}

// MaxLifetime is the longest lifetime, in ticks, that the workload may give a process. It is
// never less than one.
func (c Config) MaxLifetime() int {
	return max(1, c.MaxProcTime/TickMillis)
}
