// cmd/curatorx/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"curatorx/internal/adapters/output"
	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/core/usecases"
	"curatorx/internal/platform/config"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/registry"
	"curatorx/internal/platform/ui"

	// Import sources for auto-registration via init()
	_ "curatorx/internal/sources/harvard"
	_ "curatorx/internal/sources/met"
	_ "curatorx/internal/sources/rijks"
	_ "curatorx/internal/sources/vam"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// 1. Load centralized config
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: configuration load failed: %v\n", err)
		fmt.Fprintln(stderr, "Try: curatorx -h for help")
		return exitUsage
	}
	if cfg.Core.PrintHelp {
		config.WriteHelp(stdout)
		return exitOK
	}
	if cfg.Core.PrintVersion {
		config.WriteVersion(stdout, version, commit, date)
		return exitOK
	}
	if cfg.Request.Command == "" {
		fmt.Fprintln(stderr, "Error: a command is required")
		fmt.Fprintln(stderr, "Usage: curatorx <search|fetch|facets|departments|sources> [options]")
		return exitUsage
	}

	// 2. Shared logger
	logger := logx.NewWithWriter(stderr, logx.ParseLevel(cfg.Core.LogLevel))
	logger.Debug("CuratorX starting",
		"version", version,
		"commit", commit,
		"command", cfg.Request.Command,
		"sources", cfg.Request.Selector,
	)

	if cfg.Request.Command == config.CommandSources {
		return listSources(cfg, stdout, stderr)
	}

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals(cfg.Timeout())
	defer cancel()

	// 4. Build sources from registry
	env := registry.Env{
		Logger:     logger,
		Resilience: cfg.Resilience,
		Batch:      cfg.Batch,
	}
	sources, err := registry.Global().Build(cfg.SourceConfigs(), env)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		return exitFailure
	}
	if len(sources) == 0 {
		logger.Err(errors.New("no sources enabled"), "phase", "source-build")
		return exitUsage
	}

	// 5. Aggregator with terminal progress
	var observers []ports.Notifier
	if !cfg.Core.Quiet && cfg.Request.Command == config.CommandSearch {
		observers = append(observers, newProgress(cfg, stdout, stderr))
	}

	agg := usecases.NewAggregator(usecases.AggregatorOptions{
		Sources:         sources,
		Logger:          logger,
		Observers:       observers,
		SourceTimeout:   cfg.Aggregator.SourceTimeout,
		DefaultPageSize: cfg.Aggregator.DefaultPageSize,
		MaxLimit:        cfg.Aggregator.MaxLimit,
	})
	defer func() {
		if err := agg.Close(); err != nil {
			logger.Warn("failed to close sources", "error", err.Error())
		}
	}()

	// 6. Execute command
	start := time.Now()
	runErr := execute(ctx, cfg, agg, stdout)
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "command", cfg.Request.Command, "elapsed_ms", elapsed.Milliseconds())
		return exitCode(runErr)
	}

	logger.Debug("CuratorX finished", "elapsed_ms", elapsed.Milliseconds())
	return exitOK
}

// execute runs the selected command against the aggregator and prints its result.
func execute(ctx context.Context, cfg config.Config, agg *usecases.Aggregator, stdout io.Writer) error {
	req := cfg.Request

	switch req.Command {
	case config.CommandSearch:
		page, err := agg.SearchStandardized(ctx, domain.SearchParams{
			Query:    req.Query,
			Sources:  req.Selector,
			Page:     req.Page,
			PageSize: req.PageSize,
		})
		if err != nil {
			return err
		}
		result := output.NewSearchResult(req.Query.Text, req.Selector, page)
		if cfg.Core.OutputDir != "" {
			if _, err := output.SaveJSON(cfg.Core.OutputDir, req.Query.Text, result); err != nil {
				return err
			}
		}
		if cfg.Core.JSON {
			return output.WriteJSON(stdout, result, true)
		}
		return output.TablePage(stdout, req.Query.Text, page)

	case config.CommandFetch:
		if len(req.Args) != 1 {
			return errors.Wrap(errors.ErrInvalidInput, "fetch takes exactly one id, e.g. met:436535")
		}
		art, err := agg.FetchByID(ctx, req.Args[0])
		if err != nil {
			return err
		}
		if cfg.Core.OutputDir != "" {
			if _, err := output.SaveJSON(cfg.Core.OutputDir, art.ID, art); err != nil {
				return err
			}
		}
		if cfg.Core.JSON {
			return output.WriteJSON(stdout, art, true)
		}
		return output.TableArtwork(stdout, art)

	case config.CommandFacets:
		facets, err := agg.Facets(ctx, req.FacetType, req.Text(), req.FacetSize)
		if err != nil {
			return err
		}
		if cfg.Core.JSON {
			return output.WriteJSON(stdout, facets, true)
		}
		return output.TableFacets(stdout, req.FacetType, facets)

	case config.CommandDepartments:
		departments, err := agg.Departments(ctx)
		if err != nil {
			return err
		}
		if cfg.Core.JSON {
			return output.WriteJSON(stdout, departments, true)
		}
		return output.TableDepartments(stdout, departments)
	}

	return errors.Wrapf(errors.ErrInvalidInput, "unknown command %q", req.Command)
}

// listSources prints the registered sources with their effective configuration.
func listSources(cfg config.Config, stdout, stderr io.Writer) int {
	typed := cfg.SourceConfigs()
	rows := make([]output.SourceInfo, 0, len(typed))
	for _, name := range registry.Global().List() {
		meta, _ := registry.Global().GetMetadata(name)
		sc := typed[name]
		rows = append(rows, output.SourceInfo{Metadata: meta, Enabled: sc.Enabled, Priority: sc.Priority})
	}

	var err error
	if cfg.Core.JSON {
		err = output.WriteJSON(stdout, rows, true)
	} else {
		err = output.TableSources(stdout, rows)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// newProgress picks where progress is drawn: animated on an interactive
// stdout when it also carries the table, plain lines on stderr otherwise.
func newProgress(cfg config.Config, stdout, stderr io.Writer) ports.Notifier {
	if !cfg.Core.JSON && stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
		return ui.NewTerminalNotifier(stdout, true)
	}
	return ui.NewTerminalNotifier(stderr, false)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errors.ErrInvalidInput), errors.Is(err, errors.ErrUnknownSource):
		return exitUsage
	default:
		return exitFailure
	}
}

// rootContextWithSignals creates a root context cancelled on SIGINT/SIGTERM
// and, when timeout > 0, after timeout.
func rootContextWithSignals(timeout time.Duration) (context.Context, context.CancelFunc) {
	base, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return base, stop
	}

	ctx, cancel := context.WithTimeout(base, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
