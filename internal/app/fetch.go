package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/Matte762/polygon-helper/internal/model"
	"github.com/Matte762/polygon-helper/internal/provider/polygon"
	"github.com/Matte762/polygon-helper/internal/saver"
	"github.com/Matte762/polygon-helper/internal/slogx"
)

const (
	previewRows = 5
	nullMarker  = "<NA>"

	msgNoAPIKey = "No API key provided. Use -api-key or set POLYGON_API_KEY"
)

// FetchCmd is the "fetch" subcommand: fetch price series and print a preview.
type FetchCmd struct {
	// Init builds the dependencies from the resolved config.
	Init   func(*Config) (*App, error)
	Stdout io.Writer
	Stderr io.Writer

	configPath  string
	apiKey      string
	baseURL     string
	ticker      string
	tickersFile string
	start       string
	end         string
	timespan    string
	multiplier  int
	adjusted    bool
	sort        string
	limit       int
	maxPages    int
	out         string
	format      string
}

func (*FetchCmd) Name() string     { return "fetch" }
func (*FetchCmd) Synopsis() string { return "fetch OHLCV aggregate bars for a ticker and date range" }
func (*FetchCmd) Usage() string {
	return `fetch -ticker AAPL -start 2024-01-01 -end 2024-01-31 [flags]
  Fetch every page of Polygon aggregate bars and print the row count and a preview.
`
}

func (c *FetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "YAML config file (default $CONFIG_FILE)")
	f.StringVar(&c.apiKey, "api-key", "", "Polygon API key (default $POLYGON_API_KEY)")
	f.StringVar(&c.baseURL, "base-url", "", "API base URL (default $POLYGON_BASE_URL or "+polygon.DefaultBaseURL+")")
	f.StringVar(&c.ticker, "ticker", "", "ticker symbol, e.g. AAPL")
	f.StringVar(&c.tickersFile, "tickers-file", "", "file with tickers (.txt or .json), fetched one after another")
	f.StringVar(&c.start, "start", "", "start date, inclusive (YYYY-MM-DD or any ISO date-time)")
	f.StringVar(&c.end, "end", "", "end date, inclusive")
	f.StringVar(&c.timespan, "timespan", string(polygon.Day), "minute|hour|day|week|month|quarter|year")
	f.IntVar(&c.multiplier, "multiplier", 1, "bar size multiplier, e.g. 5 with -timespan minute")
	f.BoolVar(&c.adjusted, "adjusted", true, "adjust for splits and dividends")
	f.StringVar(&c.sort, "sort", string(polygon.Asc), "server sort order: asc|desc (output is always ascending)")
	f.IntVar(&c.limit, "limit", 50000, "results per page (the server may clamp it)")
	f.IntVar(&c.maxPages, "max-pages", 0, "max pages per series; 0 = config/default, negative = no cap")
	f.StringVar(&c.out, "out", "", "directory to save each series into (default $DATA_DIR, empty = do not save)")
	f.StringVar(&c.format, "format", "", "save format: csv|json|parquet (default $SAVE_FORMAT or parquet)")
}

func (c *FetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := c.Stdout, c.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return subcommands.ExitFailure
	}
	c.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return subcommands.ExitFailure
	}

	if cfg.LogFile != "" {
		logger, closer := slogx.NewWithFile(cfg.LogLevel, cfg.LogFile)
		defer closer.Close()
		slog.SetDefault(logger)
	} else {
		slog.SetDefault(slogx.New(stderr, cfg.LogLevel))
	}

	if strings.TrimSpace(cfg.PolygonAPIKey) == "" {
		fmt.Fprintln(stderr, msgNoAPIKey)
		return subcommands.ExitFailure
	}

	tickers, err := c.tickers()
	if err != nil {
		fmt.Fprintln(stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	if c.start == "" || c.end == "" {
		fmt.Fprintln(stderr, "-start and -end are required")
		f.Usage()
		return subcommands.ExitUsageError
	}

	if c.Init == nil {
		fmt.Fprintln(stderr, "fetch: no dependency initializer")
		return subcommands.ExitFailure
	}
	a, err := c.Init(cfg)
	if err != nil {
		if errors.Is(err, polygon.ErrAuthentication) {
			fmt.Fprintln(stderr, msgNoAPIKey)
		} else {
			fmt.Fprintf(stderr, "init: %v\n", err)
		}
		return subcommands.ExitFailure
	}
	defer a.DP.Close()
	slog.Debug("using data provider", "provider", a.DP.GetName())

	var report runReport
	dateRange := c.start + "_to_" + c.end
	for _, ticker := range tickers {
		if err := c.fetchOne(ctx, a, ticker, stdout); err != nil {
			slog.Error("fetch failed", "ticker", ticker, "error", err)
			fmt.Fprintf(stderr, "%s: %v\n", ticker, err)
			report.fail(ticker, dateRange, err)
			continue
		}
		report.success(ticker)
	}
	if cfg.DataDir != "" {
		if err := report.write(cfg.DataDir); err != nil {
			slog.Warn("write run report failed", "error", err)
		}
	}
	if len(report.failed) > 0 {
		slog.Warn("fetch done with failures",
			"failed", len(report.failed),
			"total", len(tickers),
			"reasons", report.summary(),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// applyFlags overrides config values with explicitly set flags.
func (c *FetchCmd) applyFlags(cfg *Config) {
	if c.apiKey != "" {
		cfg.PolygonAPIKey = c.apiKey
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.out != "" {
		cfg.DataDir = c.out
	}
	if c.format != "" {
		cfg.SaveFormat = c.format
	}
	if c.maxPages != 0 {
		cfg.MaxPages = c.maxPages
	}
}

func (c *FetchCmd) tickers() ([]string, error) {
	switch {
	case c.tickersFile != "":
		tickers, err := LoadTickersFromFile(c.tickersFile)
		if err != nil {
			return nil, err
		}
		if len(tickers) == 0 {
			return nil, fmt.Errorf("no tickers in %s", c.tickersFile)
		}
		return tickers, nil
	case c.ticker != "":
		return []string{c.ticker}, nil
	default:
		return nil, errors.New("-ticker or -tickers-file is required")
	}
}

func (c *FetchCmd) request(ticker string, maxPages int) polygon.SeriesRequest {
	req := polygon.NewSeriesRequest(ticker, c.start, c.end)
	req.Timespan = polygon.Timespan(strings.ToLower(c.timespan))
	req.Multiplier = c.multiplier
	req.Adjusted = c.adjusted
	req.Sort = polygon.Sort(strings.ToLower(c.sort))
	req.Limit = c.limit
	req.MaxPages = maxPages
	return req
}

func (c *FetchCmd) fetchOne(ctx context.Context, a *App, ticker string, w io.Writer) error {
	req := c.request(ticker, a.Config.MaxPages)
	series, err := a.DP.PriceSeries(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", series.Ticker())
	fmt.Fprintf(w, "Rows: %d\n", series.Len())
	if err := PrintPreview(w, series, previewRows); err != nil {
		return err
	}

	if a.Config.DataDir == "" || a.Saver == nil {
		return nil
	}
	start, end, err := req.DateRange()
	if err != nil {
		return err
	}
	path := saver.SeriesPath(a.Config.DataDir, series.Ticker(), start, end, a.Saver.Extension())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	if err := a.Saver.Save(series, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	slog.Info("saved series", "ticker", series.Ticker(), "path", path, "rows", series.Len())
	return nil
}

// PrintPreview writes the first n rows of series as an aligned table.
func PrintPreview(w io.Writer, series *model.Series, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"timestamp"}, series.Columns()...)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for i, bar := range series.Head(n) {
		cells := make([]string, 0, len(header))
		cells = append(cells, bar.Timestamp.Format(saver.TimestampLayout))
		for _, col := range series.Columns() {
			v := saver.FormatValue(series.Value(i, col))
			if v == "" {
				v = nullMarker
			}
			cells = append(cells, v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}
