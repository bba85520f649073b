// internal/forecast/forecaster.go
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/storage"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// DatasetSource serves the training datasets. Weather is optional; a
// domain.ErrNotFound from Weather means training proceeds without it.
type DatasetSource interface {
	Sales(ctx context.Context) ([]domain.SalesRecord, error)
	Weather(ctx context.Context) ([]domain.WeatherRecord, error)
}

type Config struct {
	// FallbackDailyDemand is used for products with no sales history at
	// all, matching the planner's baseline unit assumption.
	FallbackDailyDemand float64

	MinTrainingRows int

	// TrendWindowDays bounds how far back the recent-trend fit looks.
	TrendWindowDays int

	// MaxDailyTrend clamps the fitted trend so a noisy recent window
	// cannot run the forecast away over a long horizon.
	MaxDailyTrend float64
}

func DefaultConfig() Config {
	return Config{
		FallbackDailyDemand: 30.0,
		MinTrainingRows:     10,
		TrendWindowDays:     28,
		MaxDailyTrend:       0.05,
	}
}

// Forecaster predicts per-day demand from a seasonal baseline model:
// per-product mean demand, a weekday index, and a clamped recent trend.
// The trained artifact is persisted through the object store and loaded
// lazily; training happens on first use when no artifact exists yet.
type Forecaster struct {
	datasets DatasetSource
	store    storage.ObjectStore
	cfg      Config

	mu    sync.RWMutex
	model *Model

	now func() time.Time
}

func New(datasets DatasetSource, store storage.ObjectStore, cfg Config) *Forecaster {
	return &Forecaster{
		datasets: datasets,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Forecast returns per-day demand estimates for each product id over the
// horizon. Products unknown to the model fall back to the global mean, or
// the configured fallback when no history exists at all.
func (f *Forecaster) Forecast(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: forecast horizon must be positive, got %d", domain.ErrValidation, horizon)
	}

	model, err := f.ensureModel(ctx)
	if err != nil {
		return nil, err
	}

	start := f.now()
	forecasts := make(map[string]domain.DemandForecast, len(productIDs))

	for _, id := range productIDs {
		product, known := model.Products[id]

		fallback := model.GlobalMean
		if fallback <= 0 {
			fallback = f.cfg.FallbackDailyDemand
		}

		daily := make([]float64, horizon)
		dates := make([]string, horizon)
		var total float64
		for d := 0; d < horizon; d++ {
			date := start.AddDate(0, 0, d)
			dates[d] = date.Format(dateLayout)

			value := fallback
			if known {
				value = product.Mean * product.WeekdayIndex[date.Weekday()] * (1 + product.Trend*float64(d))
			}
			value = math.Max(0, roundTo(value, 2))

			daily[d] = value
			total += value
		}

		forecasts[id] = domain.DemandForecast{
			DailyForecast: daily,
			TotalForecast: roundTo(total, 2),
			ForecastDates: dates,
			AvgDaily:      roundTo(total/float64(horizon), 2),
		}
	}

	return forecasts, nil
}

// Train fits the model from the sales (and optional weather) datasets and
// persists the artifact.
func (f *Forecaster) Train(ctx context.Context) (*Model, error) {
	sales, err := f.datasets.Sales(ctx)
	if err != nil {
		return nil, err
	}
	if len(sales) < f.cfg.MinTrainingRows {
		return nil, fmt.Errorf("%w: insufficient training data (need at least %d sales rows, have %d)",
			domain.ErrValidation, f.cfg.MinTrainingRows, len(sales))
	}

	model := f.fit(sales)

	if weather, err := f.datasets.Weather(ctx); err == nil {
		model.TempCorrelation = temperatureCorrelation(sales, weather)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	data, err := model.encode()
	if err != nil {
		return nil, err
	}
	if err := f.store.Put(ctx, ModelKey, data); err != nil {
		return nil, fmt.Errorf("persisting model: %w", err)
	}

	f.mu.Lock()
	f.model = model
	f.mu.Unlock()

	log.Info().
		Int("products", len(model.Products)).
		Float64("validation_mae", model.ValidationMAE).
		Msg("demand model trained")

	return model, nil
}

// Invalidate drops the cached model so the next forecast retrains against
// freshly uploaded data.
func (f *Forecaster) Invalidate(ctx context.Context) {
	f.mu.Lock()
	f.model = nil
	f.mu.Unlock()
}

func (f *Forecaster) ensureModel(ctx context.Context) (*Model, error) {
	f.mu.RLock()
	model := f.model
	f.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	data, err := f.store.Get(ctx, ModelKey)
	switch {
	case err == nil:
		model, err = decodeModel(data)
		if err == nil {
			f.mu.Lock()
			f.model = model
			f.mu.Unlock()
			return model, nil
		}
		log.Warn().Err(err).Msg("stored model unreadable, retraining")
	case !errors.Is(err, storage.ErrObjectNotFound):
		return nil, err
	}

	return f.Train(ctx)
}

func (f *Forecaster) fit(sales []domain.SalesRecord) *Model {
	type productHistory struct {
		byDate map[string]float64
		dates  []string
	}

	histories := make(map[string]*productHistory)
	var globalSum float64
	var globalDays int

	for _, row := range sales {
		if row.ProductID == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, row.Date); err != nil {
			continue
		}

		history, ok := histories[row.ProductID]
		if !ok {
			history = &productHistory{byDate: make(map[string]float64)}
			histories[row.ProductID] = history
		}
		if _, seen := history.byDate[row.Date]; !seen {
			history.dates = append(history.dates, row.Date)
		}
		history.byDate[row.Date] += row.QuantitySold
	}

	model := &Model{
		Products:  make(map[string]ProductModel, len(histories)),
		TrainedAt: f.now(),
	}

	var maeSum float64
	var maeCount int

	for id, history := range histories {
		// ISO dates sort lexicographically.
		sort.Strings(history.dates)

		values := make([]float64, len(history.dates))
		weekdaySums := [7]float64{}
		weekdayCounts := [7]int{}
		var sum float64

		for i, date := range history.dates {
			value := history.byDate[date]
			values[i] = value
			sum += value

			day, _ := time.Parse(dateLayout, date)
			weekdaySums[day.Weekday()] += value
			weekdayCounts[day.Weekday()]++
		}

		mean := sum / float64(len(values))
		globalSum += sum
		globalDays += len(values)

		product := ProductModel{Mean: mean, Samples: len(values)}
		for wd := range product.WeekdayIndex {
			product.WeekdayIndex[wd] = 1.0
			if weekdayCounts[wd] > 0 && mean > 0 {
				product.WeekdayIndex[wd] = weekdaySums[wd] / float64(weekdayCounts[wd]) / mean
			}
		}
		product.Trend = f.recentTrend(values, mean)

		for i, date := range history.dates {
			day, _ := time.Parse(dateLayout, date)
			predicted := mean * product.WeekdayIndex[day.Weekday()]
			maeSum += math.Abs(predicted - values[i])
			maeCount++
		}

		model.Products[id] = product
	}

	if globalDays > 0 {
		model.GlobalMean = roundTo(globalSum/float64(globalDays), 2)
	}
	if maeCount > 0 {
		model.ValidationMAE = roundTo(maeSum/float64(maeCount), 2)
	}

	return model
}

// recentTrend fits a least-squares slope over the trailing window of daily
// totals and normalizes it to a fractional per-day change.
func (f *Forecaster) recentTrend(values []float64, mean float64) float64 {
	window := values
	if f.cfg.TrendWindowDays > 0 && len(window) > f.cfg.TrendWindowDays {
		window = window[len(window)-f.cfg.TrendWindowDays:]
	}
	if len(window) < 3 || mean <= 0 {
		return 0
	}

	xs := make([]float64, len(window))
	for i := range xs {
		xs[i] = float64(i)
	}

	cov, err := stats.Covariance(xs, window)
	if err != nil {
		return 0
	}
	xVar, err := stats.Variance(xs)
	if err != nil || xVar == 0 {
		return 0
	}

	return clampFloat(cov/xVar/mean, -f.cfg.MaxDailyTrend, f.cfg.MaxDailyTrend)
}

// temperatureCorrelation measures how total daily demand tracks
// temperature. Recorded in the artifact for diagnostics; the baseline
// model does not extrapolate future weather.
func temperatureCorrelation(sales []domain.SalesRecord, weather []domain.WeatherRecord) float64 {
	demandByDate := make(map[string]float64)
	for _, row := range sales {
		demandByDate[row.Date] += row.QuantitySold
	}

	var temps, demands []float64
	for _, row := range weather {
		demand, ok := demandByDate[row.Date]
		if !ok {
			continue
		}
		temps = append(temps, row.Temperature)
		demands = append(demands, demand)
	}
	if len(temps) < 3 {
		return 0
	}

	correlation, err := stats.Correlation(temps, demands)
	if err != nil {
		return 0
	}
	return roundTo(correlation, 3)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
