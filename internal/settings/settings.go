// Package settings holds the explicit Settings object the game loop owns
// and threads through the orchestrator at construction (spec §9, "Global
// mutable settings"): the scripted event stream and sunray probability no
// longer live in process-wide mutable cells.
package settings

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is owned by the game loop for the lifetime of the process and
// passed by reference to the orchestrator at construction.
type Settings struct {
	// InputFile is the absolute path to the topology file (env INPUT_FILE).
	InputFile string `yaml:"input_file"`
	// SunrayProbability is the percentage chance (clamped to [0,100]) that
	// a probability-mode tick fires a sunray rather than an asteroid.
	SunrayProbability int `yaml:"sunray_probability"`
	// ScriptedEvents is the global mutable event stream; the tick
	// consumes its last character (stack-pop).
	ScriptedEvents string `yaml:"scripted_events"`
	// TickPeriod is the monotonic ticker's period.
	TickPeriod time.Duration `yaml:"-"`
	TickPeriodMS int `yaml:"tick_period_ms"`
	// StartBarrierTimeout bounds the orchestrator's start-all barrier.
	StartBarrierTimeout time.Duration `yaml:"-"`
	StartBarrierTimeoutMS int `yaml:"start_barrier_timeout_ms"`
	// ExplorerCount is how many explorers to spawn at process start, one
	// per randomly chosen planet. The topology file only describes
	// planets (spec §6); explorer seeding is an ambient concern this
	// entry point must still configure.
	ExplorerCount int `yaml:"explorer_count"`
}

// Defaults returns the built-in defaults before any overlay is applied.
func Defaults() Settings {
	return Settings{
		SunrayProbability:     50,
		ScriptedEvents:        "",
		TickPeriod:            time.Second,
		TickPeriodMS:          1000,
		StartBarrierTimeout:   2000 * time.Millisecond,
		StartBarrierTimeoutMS: 2000,
		ExplorerCount:         3,
	}
}

// ClampSunrayProbability clamps p to [0,100], per spec §8's boundary
// table (<0 -> 0, >100 -> 100).
func ClampSunrayProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// SetSunrayProbability assigns p after clamping.
func (s *Settings) SetSunrayProbability(p int) {
	s.SunrayProbability = ClampSunrayProbability(p)
}

// LoadYAMLFile overlays fields present in the YAML file at path onto s.
// A missing file is not an error; a malformed one is.
func (s *Settings) LoadYAMLFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("settings: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("settings: parsing %q: %w", path, err)
	}
	s.SunrayProbability = ClampSunrayProbability(s.SunrayProbability)
	if s.TickPeriodMS > 0 {
		s.TickPeriod = time.Duration(s.TickPeriodMS) * time.Millisecond
	}
	if s.StartBarrierTimeoutMS > 0 {
		s.StartBarrierTimeout = time.Duration(s.StartBarrierTimeoutMS) * time.Millisecond
	}
	return nil
}

// LoadEnv overlays INPUT_FILE and SUNRAY_PROBABILITY / TICK_PERIOD_MS
// environment variables onto s, matching the teacher's env-over-config
// precedence order.
func (s *Settings) LoadEnv() {
	if v := os.Getenv("INPUT_FILE"); v != "" {
		s.InputFile = v
	}
	if v := os.Getenv("SUNRAY_PROBABILITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.SetSunrayProbability(n)
		}
	}
	if v := os.Getenv("TICK_PERIOD_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.TickPeriod = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("EXPLORER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.ExplorerCount = n
		}
	}
}

// ParseFlags overlays command-line flags onto s, the way the teacher's
// pkg/args.CtrlParse does with the standard flag package (no third-party
// CLI framework appears anywhere in the teacher's module).
func (s *Settings) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("galaxy", flag.ContinueOnError)
	inputFile := fs.String("input-file", s.InputFile, "Path to the topology input file.")
	settingsFile := fs.String("settings", "", "Optional YAML settings overlay file.")
	sunray := fs.Int("sunray-probability", s.SunrayProbability, "Percent chance of a sunray in probability mode.")
	script := fs.String("script", s.ScriptedEvents, "Scripted event stream consumed by the tick.")
	tickMS := fs.Int("tick-period-ms", int(s.TickPeriod/time.Millisecond), "Tick period in milliseconds.")
	explorerCount := fs.Int("explorer-count", s.ExplorerCount, "Number of explorers to spawn at start.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *settingsFile != "" {
		if err := s.LoadYAMLFile(*settingsFile); err != nil {
			return err
		}
		s.LoadEnv() // environment variables outrank the YAML file
	}
	// Only flags given explicitly override the earlier layers.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input-file":
			s.InputFile = *inputFile
		case "sunray-probability":
			s.SetSunrayProbability(*sunray)
		case "script":
			s.ScriptedEvents = *script
		case "tick-period-ms":
			if *tickMS > 0 {
				s.TickPeriod = time.Duration(*tickMS) * time.Millisecond
			}
		case "explorer-count":
			s.ExplorerCount = *explorerCount
		}
	})
	return nil
}

// PopScriptedEvent pops and returns the last character of the scripted
// event stream, or (0, false) if it is empty.
func (s *Settings) PopScriptedEvent() (rune, bool) {
	if s.ScriptedEvents == "" {
		return 0, false
	}
	r := []rune(s.ScriptedEvents)
	last := r[len(r)-1]
	s.ScriptedEvents = string(r[:len(r)-1])
	return last, true
}
