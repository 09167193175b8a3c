package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"lockladder/pkg/concurrency/lock"
	"lockladder/pkg/levels"
	"lockladder/pkg/logging"
	"lockladder/pkg/monitor"
	"lockladder/pkg/workload"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Configuration struct {
	Scenario string
	Workers  int
	Duration time.Duration
	Monitor  bool
	MaxLevel int
	LogLevel string
}

func main() {
	config := parseArguments()

	if err := logging.Init(logging.Config{Level: logging.LogLevel(config.LogLevel)}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	showSplashScreen()

	scenario, err := workload.ByName(config.Scenario)
	if err != nil {
		log.Fatalf("Unknown scenario: %v", err)
	}

	coord := lock.NewCoordinator(levels.Level(config.MaxLevel))

	if config.Monitor {
		if err := runWithMonitor(coord, scenario, config); err != nil {
			log.Fatalf("Monitor failed: %v", err)
		}
		return
	}

	if err := runHeadless(coord, scenario, config); err != nil {
		log.Fatalf("Scenario failed: %v", err)
	}
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var config Configuration

	flag.StringVar(&config.Scenario, "scenario", "mixed", "Workload scenario to run (see -list)")
	flag.IntVar(&config.Workers, "workers", 8, "Number of concurrent workers")
	flag.DurationVar(&config.Duration, "duration", 10*time.Second, "How long to run the scenario")
	flag.BoolVar(&config.Monitor, "monitor", true, "Show the live lock monitor")
	flag.IntVar(&config.MaxLevel, "max-level", int(levels.MaxLevel), "Highest lock level the coordinator supports")
	flag.StringVar(&config.LogLevel, "log-level", string(logging.LevelWarn), "Log verbosity (DEBUG, INFO, WARN, ERROR)")
	list := flag.Bool("list", false, "List available scenarios and exit")

	flag.Parse()

	if *list {
		listScenarios()
	}

	return config
}

func listScenarios() {
	fmt.Println("Available scenarios:")
	for _, s := range workload.All() {
		fmt.Printf("  %-14s %s\n", s.Name, s.Description)
	}
	fmt.Println()
}

// showSplashScreen displays the welcome banner
func showSplashScreen() {
	splash := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║        LOCKLADDER — hierarchical lock coordination        ║
║                                                           ║
║    ascending levels · writer preference · FIFO writers    ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	fmt.Println(style.Render(splash))
}

// runWithMonitor drives the scenario in the background while the
// Bubble Tea monitor renders live coordinator snapshots. Quitting the
// monitor stops the workload.
func runWithMonitor(coord *lock.Coordinator, scenario workload.Scenario, config Configuration) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	workloadErr := make(chan error, 1)
	go func() {
		workloadErr <- scenario.Run(ctx, coord, config.Workers)
	}()

	model := monitor.NewModel(coord, scenario.Name)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-workloadErr
		return fmt.Errorf("error running monitor: %v", err)
	}
	cancel()

	if err := <-workloadErr; err != nil {
		return err
	}

	printSummary(coord)
	return nil
}

// runHeadless drives the scenario without a UI and prints a final
// snapshot summary.
func runHeadless(coord *lock.Coordinator, scenario workload.Scenario, config Configuration) error {
	fmt.Printf("Running %s with %d workers for %s...\n", scenario.Name, config.Workers, config.Duration)

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	if err := scenario.Run(ctx, coord, config.Workers); err != nil {
		return err
	}

	printSummary(coord)
	return nil
}

func printSummary(coord *lock.Coordinator) {
	snap := coord.Snapshot()

	fmt.Printf("\nFinal coordinator state (%d levels touched):\n", len(snap.Levels))
	fmt.Printf("  acquires: %d, releases: %d\n", snap.AcquireCalls, snap.ReleaseCalls)

	for _, ls := range snap.Levels {
		fmt.Printf("  %-4s grants r:%-6d w:%-6d waits r:%-6d w:%-6d\n",
			ls.Level, ls.ReadGrants, ls.WriteGrants, ls.ReadWaits, ls.WriteWaits)
	}
}
