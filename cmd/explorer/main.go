package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/xyzmtx/math-explorer-agent/internal/actions"
	"github.com/xyzmtx/math-explorer-agent/internal/control"
	"github.com/xyzmtx/math-explorer-agent/internal/events"
	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/lock"
	"github.com/xyzmtx/math-explorer-agent/internal/logging"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/orchestrator"
	"github.com/xyzmtx/math-explorer-agent/internal/scheduler"
	"github.com/xyzmtx/math-explorer-agent/internal/setup"
	"github.com/xyzmtx/math-explorer-agent/internal/verify"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "setup":
		runSetup(os.Args[2:])
	case "run":
		runExplore(os.Args[2:])
	case "version":
		fmt.Printf("explorer %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runSetup(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: explorer setup <project_dir> [project_name]")
		os.Exit(1)
	}
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	if err := setup.Run(args[0], name); err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}
	absDir, _ := filepath.Abs(args[0])
	fmt.Printf("Initialized .explorer/ in %s\n", absDir)
	fmt.Println("Edit .explorer/input.md with your problem, then run 'explorer run'.")
}

func runExplore(args []string) {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	paths, err := setup.Resolve(projectDir)
	if err != nil {
		fatal("resolve workspace: %v", err)
	}
	if _, err := os.Stat(paths.Base); err != nil {
		fatal(".explorer/ not found in %s. Run 'explorer setup <dir>' first.", projectDir)
	}

	cfg, err := setup.LoadConfig(paths.Config)
	if err != nil {
		fatal("%v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fatal("OPENAI_API_KEY is not set")
	}

	logFile, err := os.OpenFile(filepath.Join(paths.LogDir, "explorer.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fatal("open log file: %v", err)
	}
	defer logFile.Close()
	level := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.New(logFile, level, "explorer")

	fileLock := lock.NewFileLock(paths.LockFile)
	if err := fileLock.TryLock(); err != nil {
		fatal("%v", err)
	}
	defer fileLock.Unlock()

	snapshotDir := cfg.Storage.SnapshotDir
	if !filepath.IsAbs(snapshotDir) {
		snapshotDir = filepath.Join(paths.Base, snapshotDir)
	}
	store := ledger.NewStore(snapshotDir)

	client := oracle.NewOpenAIClient(cfg.LLM, apiKey, logging.New(logFile, level, "oracle"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resume from the latest snapshot, or parse input.md on a fresh
	// workspace.
	freshStart := false
	if latest := latestSnapshot(snapshotDir); latest != "" {
		if err := store.Load(latest); err != nil {
			fatal("load snapshot %s: %v", latest, err)
		}
		fmt.Printf("Resumed ledger from %s\n", filepath.Base(latest))
	} else {
		raw, err := os.ReadFile(paths.Input)
		if err != nil {
			fatal("read input: %v", err)
		}
		if strings.TrimSpace(string(raw)) == "" {
			fatal("%s is empty; write the problem statement first", paths.Input)
		}
		fmt.Println("Parsing input into the initial ledger...")
		summary := actions.InitializeLedger(ctx, client, store.Ledger, string(raw), logger)
		fmt.Println(summary)
		if _, err := store.Save("initial"); err != nil {
			fatal("save initial snapshot: %v", err)
		}
		freshStart = true
	}
	fmt.Println(store.Ledger.Summary())

	queue := events.NewQueue(1024)
	merger := actions.NewMerger(store.Ledger, store, client, queue, cfg.Storage.AutoSave, logging.New(logFile, level, "merger"))
	verifier := verify.New(client, cfg.Verify.MaxRounds, cfg.Verify.ChunkLines, logging.New(logFile, level, "verify"))
	executor := actions.NewExecutor(client, verifier, merger, logging.New(logFile, level, "actions"))
	sched := scheduler.New(cfg.Explorer.MaxParallelActions, logging.New(logFile, level, "scheduler"))
	planner := scheduler.NewPlanner(client, 0.3, logging.New(logFile, level, "planner"))

	decisions := make(chan string)
	go readDecisions(decisions)

	orch := orchestrator.New(cfg.Explorer, store.Ledger, sched, planner, executor, merger, queue,
		decisions, freshStart, logger)

	watcher, err := control.NewWatcher(paths.Control, orch.RequestStop, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer watcher.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStop requested; finishing the current round...")
		orch.RequestStop()
	}()

	done := make(chan struct{})
	go func() {
		printEvents(queue, os.Stdout)
		close(done)
	}()

	runErr := orch.Run(ctx)
	queue.Close()
	<-done

	fmt.Println(store.Ledger.Summary())
	fmt.Println(sched.Summary().String())
	if runErr != nil {
		fatal("run: %v", runErr)
	}
}

// readDecisions forwards stdin lines to the checkpoint channel.
func readDecisions(decisions chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		decisions <- scanner.Text()
	}
	close(decisions)
}

// printEvents renders the event stream for the terminal.
func printEvents(queue *events.Queue, w io.Writer) {
	for ev := range queue.Events() {
		switch ev.Type {
		case events.EventRoundStarted:
			fmt.Fprintf(w, "\n=== Round %v (ceiling %v) ===\n", ev.Data["round"], ev.Data["ceiling"])
		case events.EventRoundCompleted:
			fmt.Fprintf(w, "Round %v done: %v\n", ev.Data["round"], ev.Data["status"])
		case events.EventActionStarted:
			fmt.Fprintf(w, "  -> %v: %v\n", ev.Data["id"], ev.Data["task"])
		case events.EventActionCompleted:
			fmt.Fprintf(w, "  ok %v: %v\n", ev.Data["id"], ev.Data["summary"])
		case events.EventActionFailed:
			fmt.Fprintf(w, "  FAIL %v: %v\n", ev.Data["id"], ev.Data["error"])
		case events.EventCheckpointReached:
			fmt.Fprintf(w, "\n--- Checkpoint at round %v (ceiling %v) ---\n%v\n%v\n", ev.Data["round"], ev.Data["ceiling"], ev.Data["ledger_summary"], ev.Data["action_summary"])
			fmt.Fprintln(w, "Enter rounds to continue, 'stop' (or 0) to stop, or press Enter to continue:")
		case events.EventStatus:
			fmt.Fprintf(w, "%v\n", ev.Data["message"])
		}
	}
}

// latestSnapshot returns the newest ledger snapshot in dir, or "".
// Snapshot filenames embed a sortable timestamp.
func latestSnapshot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "ledger_") && strings.HasSuffix(name, ".yaml") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Slice(names, func(i, j int) bool {
		return snapshotStamp(names[i]) < snapshotStamp(names[j])
	})
	return filepath.Join(dir, names[len(names)-1])
}

// snapshotStamp extracts the trailing timestamp of a snapshot filename.
func snapshotStamp(name string) string {
	base := strings.TrimSuffix(name, ".yaml")
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return base
	}
	return parts[len(parts)-2] + "_" + parts[len(parts)-1]
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `explorer %s, an automated mathematical exploration agent

Usage: explorer <command> [options]

Commands:
  setup <dir> [name]  Initialize an .explorer/ workspace
  run [dir]           Run the exploration loop (resumes from snapshots)
  version             Show version
  help                Show this help

During a run:
  - At a checkpoint, enter a number of rounds to continue, 'stop' to
    stop, or press Enter to keep going.
  - Write "stop" into .explorer/control to stop between rounds.

Environment:
  OPENAI_API_KEY      API key for the configured llm.base_url
`, version)
}
