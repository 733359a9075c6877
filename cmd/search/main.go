// Command search is an interactive terminal front end for address lookups.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/solar-lookup/internal/adapter"
	"github.com/couchcryptid/solar-lookup/internal/config"
	"github.com/couchcryptid/solar-lookup/internal/dataset"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/lookup"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

func main() {
	var (
		datasetURL  string
		geocode     bool
		historyFile string
		verbose     bool
	)
	pflag.StringVarP(&datasetURL, "dataset", "d", "", "Dataset URL or path (overrides DATASET_URL)")
	pflag.BoolVarP(&geocode, "geocode", "g", true, "Geocode matched addresses")
	pflag.StringVar(&historyFile, "history", defaultHistoryFile(), "Prompt history file (empty disables history)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  search [flags]\n\nFlags:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands at the prompt:\n%s", helpText)
	}
	pflag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}
	if datasetURL != "" {
		_ = os.Setenv("DATASET_URL", datasetURL)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		pflag.Usage()
		os.Exit(1)
	}
	if !geocode {
		cfg.Geocoder = config.GeocoderNone
	}
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	if verbose {
		cfg.LogLevel = "debug"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "address> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	logger := observability.NewLoggerTo(rl.Stderr(), cfg)
	metrics := observability.NewMetricsForTesting()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(rl.Stdout(), "Loading dataset from %s ...\n", cfg.DatasetURL)
	table, err := dataset.NewLoader(cfg.DatasetTimeout, logger, metrics).Load(ctx, cfg.DatasetURL)
	if err != nil {
		fmt.Fprintf(rl.Stderr(), "Error: %v\n", err)
		_ = rl.Close()
		os.Exit(1)
	}
	fmt.Fprintf(rl.Stdout(), "%d installations loaded. Type :help for commands.\n", table.Len())

	matcher := domain.NewMatcher(domain.MatchConfig{
		Threshold:          cfg.MatchThreshold,
		ContainsScore:      cfg.MatchContainsScore,
		FallbackSimilarity: cfg.MatchFallbackSimilarity,
	})
	center := domain.Coordinate{Lat: cfg.MapDefaultLat, Lon: cfg.MapDefaultLon}
	svc := lookup.NewService(table, matcher, adapter.NewGeocoder(cfg, logger, metrics), nil, center, logger, metrics)
	session := lookup.NewSession(svc)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if err != nil {
			return // EOF
		}
		if quit := handleLine(ctx, session, strings.TrimSpace(line), rl.Stdout()); quit {
			return
		}
	}
}

const helpText = `  <address>                      search for an installation
  :set yield <kWh/kWp>           edit the yield factor
  :set availability <percent>    edit the availability factor
  :set wp <watts>                edit the average panel output
  :show                          print the current result
  :help                          print this help
  :quit                          exit
`

// paramAliases maps prompt parameter names to editable fields.
var paramAliases = map[string]string{
	"yield":        lookup.ParamYieldFactor,
	"availability": lookup.ParamAvailabilityPct,
	"wp":           lookup.ParamAvgPanelWp,
}

// handleLine executes one prompt line and reports whether to exit.
func handleLine(ctx context.Context, s *lookup.Session, line string, out io.Writer) bool {
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		printSnapshot(out, s.Search(ctx, line))
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(out, helpText)
	case ":show":
		printSnapshot(out, s.Snapshot())
	case ":set":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: :set yield|availability|wp <value>")
			return false
		}
		field, ok := paramAliases[strings.ToLower(fields[1])]
		if !ok {
			fmt.Fprintf(out, "unknown parameter %q (yield, availability, wp)\n", fields[1])
			return false
		}
		v, err := s.Edit(field, strings.Join(fields[2:], " "))
		if errors.Is(err, lookup.ErrNoRecord) {
			fmt.Fprintln(out, "search for an address first")
			return false
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		printView(out, v)
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}

func printSnapshot(out io.Writer, snap lookup.Snapshot) {
	switch snap.State {
	case lookup.StateIdle:
		fmt.Fprintln(out, "no search yet")
	case lookup.StateNotFound:
		fmt.Fprintf(out, "No installation found for %q.\n", snap.Query)
	case lookup.StateFound:
		fmt.Fprintf(out, "match: %s (%s, score %.2f)\n", snap.Match.Key, snap.Match.Tier, snap.Match.Score)
		printView(out, snap.View)
	}
	printMap(out, snap.Map)
}

func printView(out io.Writer, v lookup.View) {
	fmt.Fprintf(out, "  address:        %s\n", v.Address)
	fmt.Fprintf(out, "  panels:         %g\n", v.Panels)
	fmt.Fprintf(out, "  confidence:     %g/10\n", v.Confidence)
	fmt.Fprintf(out, "  capacity:       %.3f kWp\n", v.CapacityKWp)
	fmt.Fprintf(out, "  annual output:  %.0f kWh (%s)\n", v.AnnualOutputKWh, v.Source)
	fmt.Fprintf(out, "  yield factor:   %g kWh/kWp/year\n", v.Params.YieldFactor)
	fmt.Fprintf(out, "  availability:   %g%%\n", v.Params.AvailabilityPct)
	fmt.Fprintf(out, "  panel output:   %g Wp\n", v.Params.AvgPanelWp)
}

func printMap(out io.Writer, m domain.MapView) {
	label := m.Label
	if label == "" {
		label = "default view"
	}
	fmt.Fprintf(out, "  map:            %.5f,%.5f zoom %d (%s)\n", m.Center.Lat, m.Center.Lon, m.Zoom, label)
}

// defaultHistoryFile returns a path under the user cache directory, or an
// empty string when none is available.
func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		slog.Debug("no cache directory for history", "error", err)
		return ""
	}
	dir = filepath.Join(dir, "solar-lookup")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "search_history")
}
