// Command galaxy is the process entry point: it reads the topology
// input file, constructs the orchestrator and its actors, and drives
// the game loop until EndGame or an unrecoverable error.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/conduitio/bwlimit"

	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxyerr"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/galaxylog"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/gameloop"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/orchestrator"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/settings"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/statusfeed"
	"github.com/Advance-Programming-2025/omc-galaxy-sub000/internal/topology"
)

func main() {
	os.Exit(run())
}

func run() int {
	galaxylog.SetDefault(galaxylog.New("galaxy", slog.LevelInfo, os.Stdout, 1024))

	s := settings.Defaults()
	s.LoadEnv()
	if err := s.ParseFlags(os.Args[1:]); err != nil {
		galaxylog.Error("main", "parsing flags", "error", err.Error())
		return 1
	}
	if s.InputFile == "" {
		galaxylog.Error("main", "INPUT_FILE is required")
		return 1
	}

	orch, err := buildOrchestrator(&s)
	if err != nil {
		galaxylog.Error("main", "initialization failed", "error", err.Error())
		return 1
	}

	reinit := func() (*orchestrator.Orchestrator, error) {
		return buildOrchestrator(&s)
	}

	loop := gameloop.New(orch, &s, reinit)

	feed := statusfeed.New(orch, s.TickPeriod)
	stopFeed := make(chan struct{})
	go feed.Run(stopFeed)
	defer close(stopFeed)
	go func() {
		const statusFeedAddr = ":7777"
		const byteLimit = 4 * 1024 * 1024 // 4 MiB/s per direction
		if err := feed.ListenAndServe(statusFeedAddr, bwlimit.Byte(byteLimit), bwlimit.Byte(byteLimit)); err != nil {
			galaxylog.Warn("main", "status feed stopped", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commands := make(chan string)
	go readCommands(os.Stdin, commands)

	if err := loop.Run(ctx, commands); err != nil {
		if err.Error() == "terminated" {
			galaxylog.Info("main", "shut down on EndGame")
			return 0
		}
		galaxylog.Error("main", "game loop exited", "error", err.Error())
		return 1
	}
	return 0
}

// buildOrchestrator parses the configured topology file, constructs the
// orchestrator, and spawns one actor per parsed planet.
func buildOrchestrator(s *settings.Settings) (*orchestrator.Orchestrator, error) {
	parsed, err := topology.ParseFile(s.InputFile)
	if err != nil {
		return nil, galaxyerr.Init(fmt.Sprintf("parsing topology: %v", err))
	}
	graph := topology.BuildGraph(parsed)
	orch := orchestrator.New(graph, s)

	for _, p := range parsed {
		if err := orch.SpawnPlanet(p.ID, int(p.Type)); err != nil {
			return nil, err
		}
	}
	if len(parsed) == 0 {
		return nil, galaxyerr.Init("topology file declares no planets")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < s.ExplorerCount; i++ {
		start := parsed[rng.Intn(len(parsed))].ID
		explorerID := topology.ID(uint64(i) + 1)
		seed := rng.Int63()
		if err := orch.SpawnExplorer(explorerID, start, seed); err != nil {
			return nil, err
		}
	}
	return orch, nil
}

// readCommands tokenizes stdin line-by-line onto commands, matching the
// teacher's pattern of a dedicated reader goroutine feeding a channel
// consumed by the main select loop.
func readCommands(f *os.File, commands chan<- string) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		commands <- scanner.Text()
	}
}
