package polygon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Matte762/polygon-helper/internal/model"
)

// Timespan is the unit of one aggregate bar.
type Timespan string

const (
	Minute  Timespan = "minute"
	Hour    Timespan = "hour"
	Day     Timespan = "day"
	Week    Timespan = "week"
	Month   Timespan = "month"
	Quarter Timespan = "quarter"
	Year    Timespan = "year"
)

// Sort is the order the server streams results in. The returned series is always ascending.
type Sort string

const (
	Asc  Sort = "asc"
	Desc Sort = "desc"
)

const (
	// maxLimit is the largest page size the API accepts; larger values are clamped server side.
	maxLimit = 50000

	// DefaultMaxPages bounds how many next_url links one series follows.
	DefaultMaxPages = 1000
)

var (
	validate = newValidator()
	encoder  = form.NewEncoder()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

// SeriesRequest describes one aggregates query.
type SeriesRequest struct {
	Ticker     string   `form:"-" validate:"required"`
	Start      any      `form:"-"` // string, time.Time or *time.Time
	End        any      `form:"-"`
	Timespan   Timespan `form:"-" validate:"oneof=minute hour day week month quarter year"`
	Multiplier int      `form:"-" validate:"min=1"`
	Adjusted   bool     `form:"adjusted"`
	Sort       Sort     `form:"sort" validate:"oneof=asc desc"`
	Limit      int      `form:"limit" validate:"min=1"`
	// MaxPages caps the number of pages fetched. 0 means DefaultMaxPages, negative means no cap.
	MaxPages int `form:"-"`
}

// NewSeriesRequest returns a request for daily, adjusted, ascending bars with the largest page size.
func NewSeriesRequest(ticker string, start, end any) SeriesRequest {
	return SeriesRequest{
		Ticker:     ticker,
		Start:      start,
		End:        end,
		Timespan:   Day,
		Multiplier: 1,
		Adjusted:   true,
		Sort:       Asc,
		Limit:      maxLimit,
	}
}

// NormalizedTicker returns the upper-cased ticker.
func (r SeriesRequest) NormalizedTicker() string {
	return strings.ToUpper(strings.TrimSpace(r.Ticker))
}

// Validate checks the request fields and both dates.
func (r SeriesRequest) Validate() error {
	r.Ticker = r.NormalizedTicker()
	if err := validate.Struct(r); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			reason := fe.Tag()
			if fe.Param() != "" {
				reason += "=" + fe.Param()
			}
			return &ValidationError{Field: fe.Field(), Reason: fmt.Sprintf("%v fails %s", fe.Value(), reason)}
		}
		return fmt.Errorf("validate request: %w", err)
	}
	if _, err := NormalizeDate(r.Start); err != nil {
		return &ValidationError{Field: "start", Reason: err.Error()}
	}
	if _, err := NormalizeDate(r.End); err != nil {
		return &ValidationError{Field: "end", Reason: err.Error()}
	}
	return nil
}

// DateRange returns the normalized start and end dates.
func (r SeriesRequest) DateRange() (start, end string, err error) {
	if start, err = NormalizeDate(r.Start); err != nil {
		return "", "", &ValidationError{Field: "start", Reason: err.Error()}
	}
	if end, err = NormalizeDate(r.End); err != nil {
		return "", "", &ValidationError{Field: "end", Reason: err.Error()}
	}
	return start, end, nil
}

// Path returns /v2/aggs/ticker/{TICKER}/range/{multiplier}/{timespan}/{start}/{end}.
func (r SeriesRequest) Path() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	start, end, err := r.DateRange()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/v2/aggs/ticker/%s/range/%s/%s/%s/%s",
		url.PathEscape(r.NormalizedTicker()),
		strconv.Itoa(r.Multiplier),
		r.Timespan,
		start,
		end,
	), nil
}

// Query returns the adjusted, sort and limit query parameters.
func (r SeriesRequest) Query() (url.Values, error) {
	q, err := encoder.Encode(r)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return q, nil
}

func (r SeriesRequest) maxPages() int {
	if r.MaxPages == 0 {
		return DefaultMaxPages
	}
	return r.MaxPages
}

// Getter is the transport GetPriceSeries depends on. *Client implements it.
type Getter interface {
	Get(ctx context.Context, pathOrURL string, params url.Values, out any) error
}

// GetPriceSeries fetches every page of the aggregates query described by req and
// returns them as one timestamp-ascending Series. Pages are fetched one after
// another by following next_url; any page error aborts the whole call.
func GetPriceSeries(ctx context.Context, c Getter, req SeriesRequest) (*model.Series, error) {
	path, err := req.Path()
	if err != nil {
		return nil, err
	}
	query, err := req.Query()
	if err != nil {
		return nil, err
	}

	ticker := req.NormalizedTicker()
	maxPages := req.maxPages()
	logger := slog.Default().With("fetch_id", uuid.NewString(), "ticker", ticker)
	start := time.Now()

	var bars []model.Bar
	target, params := path, query
	pages := 0
	for {
		var page AggregatesResponse
		if err := c.Get(ctx, target, params, &page); err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", ticker, pages+1, err)
		}
		pages++
		for _, raw := range page.Results {
			bars = append(bars, raw.ToBar())
		}
		logger.Debug("page fetched",
			"page", pages,
			"results", len(page.Results),
			"status", page.Status,
			"has_next", page.NextURL != "",
		)

		if page.NextURL == "" {
			break
		}
		if maxPages > 0 && pages >= maxPages {
			return nil, &PageLimitError{Ticker: ticker, MaxPages: maxPages, NextURL: redactURL(page.NextURL)}
		}
		target, params = page.NextURL, nil
	}

	series := model.NewSeries(ticker, bars)
	logger.Info("series fetched", "pages", pages, "rows", series.Len(), "elapsed", time.Since(start))
	return series, nil
}
