package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/cpu"
)

var searchCmd = &cobra.Command{
	Use:   "search [observation file]",
	Short: "Search for every seed consistent with a set of observations",
	Long: `Reads observations from a YAML or JSON file ("-" for stdin) and, optionally,
a text slime map, then scans the seed space for seeds that agree with all of
them. Interrupting the search prints the seeds found so far.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntP("workers", "j", runtime.GOMAXPROCS(0), "Number of concurrent workers")
	f.Int("bits", 0, "Seed width to search: 48, 64, or 0 to infer it from the observations")
	f.String("range", "", "Seeds to scan as `lo:hi`, hi exclusive")
	f.String("extend", "high-bits", "How 48-bit survivors become 64-bit seeds: high-bits or next-long")
	f.StringP("format", "f", "human", "Output `format` (valid options: csv, json, human)")
	f.Duration("progress-interval", time.Second, "Minimum time between progress reports")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this `address`")
	addSlimeMapFlags(f)

	for key, flag := range map[string]string{
		"workers":           "workers",
		"bit_width":         "bits",
		"range":             "range",
		"extend":            "extend",
		"format":            "format",
		"progress_interval": "progress-interval",
		"metrics_addr":      "metrics-addr",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}
}

type searchOptions struct {
	Workers          int           `validate:"min=1"`
	BitWidth         int           `validate:"oneof=0 48 64"`
	Range            string        `validate:"omitempty,contains=:"`
	Extend           string        `validate:"required"`
	Format           string        `validate:"oneof=csv json human"`
	ProgressInterval time.Duration `validate:"gte=0"`
}

var validate = validator.New()

func loadSearchOptions() (*searchOptions, error) {
	opts := &searchOptions{
		Workers:          viper.GetInt("workers"),
		BitWidth:         viper.GetInt("bit_width"),
		Range:            viper.GetString("range"),
		Extend:           viper.GetString("extend"),
		Format:           viper.GetString("format"),
		ProgressInterval: viper.GetDuration("progress_interval"),
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := loadSearchOptions()
	if err != nil {
		return err
	}
	set, err := loadObservations(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	format, err := formatter(opts.Format)
	if err != nil {
		return err
	}
	if addr := viper.GetString("metrics_addr"); addr != "" {
		go serveMetrics(addr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := cpu.NewSearcher(cpu.WithLogger(log)).Search(ctx, set, cfg)
	if err != nil {
		return err
	}
	if report.Cancelled {
		log.WithField("results", len(report.Results)).Warn("Search interrupted, results are incomplete")
	}
	if err := saveRun(report, set); err != nil {
		log.WithError(err).Error("Could not save run")
	}
	return format(cmd.OutOrStdout(), report)
}

func (opts *searchOptions) config() (seedfinder.Config, error) {
	cfg := seedfinder.Config{
		Workers:          opts.Workers,
		BitWidth:         seedfinder.BitWidth(opts.BitWidth),
		ProgressInterval: opts.ProgressInterval,
		OnProgress: func(p seedfinder.Progress) {
			log.WithFields(logrus.Fields{
				"stage":   p.Stage,
				"elapsed": p.Elapsed.Round(time.Second),
			}).Infof("%5.1f%% scanned", 100*p.Fraction)
		},
	}

	var err error
	if cfg.Extension, err = seedfinder.ParseExtensionMode(opts.Extend); err != nil {
		return cfg, err
	}
	if opts.Range != "" {
		rng, err := parseRange(opts.Range)
		if err != nil {
			return cfg, err
		}
		cfg.Range = &rng
	}
	return cfg, nil
}

// parseRange reads "lo:hi". Either bound may be signed, unsigned or hex.
func parseRange(text string) (seedfinder.SearchRange, error) {
	lo, hi, ok := strings.Cut(text, ":")
	if !ok {
		return seedfinder.SearchRange{}, fmt.Errorf("range %q: expected lo:hi", text)
	}
	l, err := seedfinder.ParseSeed(strings.TrimSpace(lo))
	if err != nil {
		return seedfinder.SearchRange{}, fmt.Errorf("range %q: %w", text, err)
	}
	h, err := seedfinder.ParseSeed(strings.TrimSpace(hi))
	if err != nil {
		return seedfinder.SearchRange{}, fmt.Errorf("range %q: %w", text, err)
	}
	return seedfinder.SearchRange{Lo: uint64(l), Hi: uint64(h)}, nil
}

// loadObservations merges the observation file named by args, if any, with
// the slime map given on the command line.
func loadObservations(cmd *cobra.Command, args []string) (*seedfinder.ObservationSet, error) {
	set := new(seedfinder.ObservationSet)
	if len(args) > 0 {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		var err error
		if set, err = seedfinder.DecodeObservations(r); err != nil {
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
	}

	m, err := readSlimeMap(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if m != nil {
		for _, o := range m.Observations() {
			if err := set.Add(o); err != nil {
				return nil, fmt.Errorf("slime map: %w", err)
			}
		}
	}

	if set.Len() == 0 {
		return nil, errors.New("no observations given")
	}
	log.WithField("observations", set.Len()).Debug("Loaded observations")
	return set, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("Metrics server stopped")
	}
}

type reportFormatter func(io.Writer, *seedfinder.Report) error

func formatter(name string) (reportFormatter, error) {
	switch name {
	case "csv":
		return formatCSV, nil
	case "json":
		return formatJSON, nil
	case "human":
		return formatHuman, nil
	}
	return nil, errors.New("format must be one of: csv, json, human")
}

func formatCSV(w io.Writer, report *seedfinder.Report) error {
	if _, err := fmt.Fprintln(w, "Seed,Matched Observations,Bits"); err != nil {
		return err
	}
	for _, res := range report.Results {
		if _, err := fmt.Fprint(w, res.Seed, ",", res.Matched, ",", uint8(res.Width), "\n"); err != nil {
			return err
		}
	}
	return nil
}

type jsonResult struct {
	Seed    int64 `json:"seed"`
	Matched int   `json:"matched"`
	Bits    int   `json:"bits"`
}

type jsonReport struct {
	RunID     string       `json:"run_id"`
	Cancelled bool         `json:"cancelled"`
	Results   []jsonResult `json:"results"`
}

func formatJSON(w io.Writer, report *seedfinder.Report) error {
	out := jsonReport{RunID: report.RunID, Cancelled: report.Cancelled, Results: []jsonResult{}}
	for _, res := range report.Results {
		out.Results = append(out.Results, jsonResult{res.Seed.Int64(), res.Matched, int(res.Width)})
	}
	return json.NewEncoder(w).Encode(out)
}

func formatHuman(w io.Writer, report *seedfinder.Report) error {
	if len(report.Results) == 0 {
		_, err := fmt.Fprintln(w, "No seed matches the observations")
		return err
	}
	for _, res := range report.Results {
		if _, err := fmt.Fprintf(w, "%20s  %d-bit  %d observations\n", res.Seed, res.Width, res.Matched); err != nil {
			return err
		}
	}
	return nil
}
