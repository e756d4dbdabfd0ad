package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	reportSuccessFile = ".lastrun.success.json"
	reportFailedFile  = ".lastrun.failed.json"
)

type failedFetch struct {
	Ticker    string `json:"ticker"`
	DateRange string `json:"date_range"`
	Reason    string `json:"reason"`
}

// runReport collects per-ticker outcomes of one fetch run.
type runReport struct {
	succeeded []string
	failed    []failedFetch
}

func (r *runReport) success(ticker string) {
	for _, t := range r.succeeded {
		if t == ticker {
			return
		}
	}
	r.succeeded = append(r.succeeded, ticker)
}

func (r *runReport) fail(ticker, dateRange string, err error) {
	r.failed = append(r.failed, failedFetch{Ticker: ticker, DateRange: dateRange, Reason: err.Error()})
}

// write stores the success and failure lists under dir. Stale files from an
// earlier run are removed when the matching list is empty.
func (r *runReport) write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeReportFile(filepath.Join(dir, reportSuccessFile), r.succeeded, len(r.succeeded)); err != nil {
		return err
	}
	return writeReportFile(filepath.Join(dir, reportFailedFile), r.failed, len(r.failed))
}

func writeReportFile(path string, v any, n int) error {
	if n == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	slog.Info("report written", "path", path, "count", n)
	return nil
}

// summary joins the first failures into one line for logging.
func (r *runReport) summary() string {
	var b strings.Builder
	for i, f := range r.failed {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Ticker)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(r.failed) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(r.failed)-5))
			break
		}
	}
	return b.String()
}
