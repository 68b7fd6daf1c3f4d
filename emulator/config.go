package emulator

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/ukern/kernel"
)

const (
	EMULATOR_MEMORY_BASE = uint32(0x00010000) // Address of the first program region.
	EMULATOR_REGION_SIZE = uint32(0x00010000) // Bytes of memory per program.
	EMULATOR_TICK_COST   = uint32(0x1000)     // Timer cycles per instruction.

	EMULATOR_ENTRY = "main"      // Default entry label.
	EMULATOR_STACK = "stack_top" // Default stack label.
)

// Program is one user program of the machine.
type Program struct {
	Name   string `yaml:"name"`   // Program name.
	Source string `yaml:"source"` // Assembly source file, relative to the configuration.
	Text   string `yaml:"text"`   // Inline assembly source, instead of Source.
	Entry  string `yaml:"entry"`  // Entry point label.
	Stack  string `yaml:"stack"`  // Stack top label. Defaults to the end of the region.
}

// Config is the machine configuration.
type Config struct {
	Kernel     kernel.Config `yaml:"kernel"`      // Kernel configuration.
	MemoryBase uint32        `yaml:"memory_base"` // Address of the first program region.
	RegionSize uint32        `yaml:"region_size"` // Bytes of memory per program.
	TickCost   uint32        `yaml:"tick_cost"`   // Timer cycles per instruction.
	Programs   []Program     `yaml:"programs"`    // Programs, in process table order.

	Dir string `yaml:"-"` // Directory that program sources are relative to.
}

// DefaultConfig returns the default machine, with no programs.
func DefaultConfig() Config {
	return Config{
		Kernel:     kernel.DefaultConfig(),
		MemoryBase: EMULATOR_MEMORY_BASE,
		RegionSize: EMULATOR_REGION_SIZE,
		TickCost:   EMULATOR_TICK_COST,
		Dir:        ".",
	}
}

// ParseConfig parses a YAML machine configuration over the defaults.
func ParseConfig(data []byte) (config Config, err error) {
	config = DefaultConfig()

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return
	}

	for n := range config.Programs {
		prog := &config.Programs[n]
		if prog.Entry == "" {
			prog.Entry = EMULATOR_ENTRY
		}
		if prog.Name == "" {
			prog.Name = fmt.Sprintf("prog%d", n)
		}
	}

	err = config.Validate()

	return
}

// LoadConfig reads a YAML machine configuration file.
func LoadConfig(path string) (config Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	config, err = ParseConfig(data)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	config.Dir = filepath.Dir(path)

	return
}

// Validate the configuration.
func (config *Config) Validate() (err error) {
	err = config.Kernel.Validate()
	if err != nil {
		return
	}

	if len(config.Programs) != config.Kernel.Capacity {
		err = fmt.Errorf("%w: %d programs, capacity %d", ErrProgramCount, len(config.Programs), config.Kernel.Capacity)
		return
	}

	if config.RegionSize == 0 || config.RegionSize%4 != 0 {
		err = fmt.Errorf("%w: 0x%x", ErrRegionSize, config.RegionSize)
		return
	}

	limit := uint64(config.MemoryBase) + uint64(config.RegionSize)*uint64(len(config.Programs))
	if limit > 1<<32 {
		err = fmt.Errorf("%w: 0x%x", ErrRegionSize, config.RegionSize)
		return
	}

	if config.TickCost == 0 {
		err = ErrTickCost
		return
	}

	for _, prog := range config.Programs {
		if prog.Source == "" && prog.Text == "" {
			err = fmt.Errorf("%w: %v", ErrProgramSource, prog.Name)
			return
		}
	}

	return
}

// Origin returns the address of the memory region of program n.
func (config *Config) Origin(n int) uint32 {
	return config.MemoryBase + uint32(n)*config.RegionSize
}
