package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spachava753/webmall-eval/internal/agent"
	"github.com/spachava753/webmall-eval/internal/executor"
	"github.com/spachava753/webmall-eval/internal/store"
	"github.com/spachava753/webmall-eval/internal/summary"
)

const usage = `usage:
  webmall-eval run <study.yaml>
  webmall-eval resolve <study.yaml> [output.json]
  webmall-eval history <index.db> [limit]`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	// Setup context with manual signal handling
	ctx, cancel := context.WithCancel(context.Background())

	// Listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, finishing current task...", "signal", sig)
		cancel()
	}()

	var code int
	switch os.Args[1] {
	case "run":
		code = run(ctx, os.Args[2])
	case "resolve":
		output := ""
		if len(os.Args) > 3 {
			output = os.Args[3]
		}
		code = resolve(ctx, os.Args[2], output)
	case "history":
		limit := 20
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid limit %q\n", os.Args[3])
				os.Exit(1)
			}
			limit = n
		}
		code = history(ctx, os.Args[2], limit)
	default:
		fmt.Fprintln(os.Stderr, usage)
		code = 1
	}

	if code != 0 {
		signal.Stop(sigChan)
		cancel()
		os.Exit(code)
	}
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		slog.Warn("unknown log level, using info", "log_level", level)
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func run(ctx context.Context, configPath string) int {
	cfg, sites, err := executor.LoadStudy(configPath)
	if err != nil {
		slog.Error("invalid study configuration", "error", err)
		return 1
	}
	setupLogging(cfg.LogLevel)

	runtime, err := agent.New(cfg.Agent)
	if err != nil {
		slog.Error("creating agent runtime", "error", err)
		return 1
	}

	var recorder executor.Recorder
	if cfg.IndexPath != "" {
		s, err := store.Open(cfg.IndexPath)
		if err != nil {
			slog.Error("opening study index", "error", err)
			return 1
		}
		defer s.Close()
		recorder = s
	}

	result, err := executor.NewStudyOrchestrator(cfg, sites, runtime, recorder).Run(ctx)
	if err != nil {
		slog.Error("study failed", "error", err)
		return 1
	}

	fmt.Println()
	summary.Print(os.Stdout, *result)
	fmt.Printf("\nResults: %s\n", result.Dir)

	if result.Cancelled {
		return 1
	}
	return 0
}

func resolve(ctx context.Context, configPath, output string) int {
	cfg, sites, err := executor.LoadStudy(configPath)
	if err != nil {
		slog.Error("invalid study configuration", "error", err)
		return 1
	}
	setupLogging(cfg.LogLevel)

	resolved, err := executor.ResolveTaskSets(ctx, cfg, sites)
	if err != nil {
		slog.Error("resolving task sets", "error", err)
		return 1
	}

	if output != "" {
		err = resolved.WriteFile(output)
	} else {
		err = resolved.WriteJSON(os.Stdout)
	}
	if err != nil {
		slog.Error("writing resolved task sets", "error", err)
		return 1
	}

	slog.Info("resolved task sets", "kept", resolved.Kept, "skipped", resolved.Skipped, "output", output)
	return 0
}

func history(ctx context.Context, indexPath string, limit int) int {
	s, err := store.Open(indexPath)
	if err != nil {
		slog.Error("opening study index", "error", err)
		return 1
	}
	defer s.Close()

	studies, err := s.ListStudies(ctx, limit)
	if err != nil {
		slog.Error("listing studies", "error", err)
		return 1
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tNAME\tAGENT\tTASKS\tCOMPLETION\tF1\tTOKENS\tCOST")
	for _, st := range studies {
		name := st.Name
		if st.Cancelled {
			name += " (cancelled)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f%%\t%.3f\t%d\t$%.4f\n",
			st.StartedAt.Local().Format("2006-01-02 15:04"), name, st.Agent, st.NumRuns,
			st.AvgTaskCompletion*100, st.AvgF1, st.TotalTokens, st.TotalCost)
	}
	tw.Flush()
	return 0
}
