package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freshcast/backend-go/internal/catalog"
	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/forecast"
	"github.com/freshcast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubPlanner struct{}

func (stubPlanner) Plan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, error) {
	if productIDs != nil && len(productIDs) == 0 {
		return nil, fmt.Errorf("%w: product ids must be a non-empty list", domain.ErrValidation)
	}
	return &domain.PlanResult{
		StockPlan:       []domain.PlanRecord{{ProductID: "P001", StockStatus: domain.StatusOptimal}},
		PlanningHorizon: horizon,
		TotalProducts:   1,
		Omitted:         []string{},
	}, nil
}

type stubForecaster struct{}

func (stubForecaster) Forecast(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error) {
	forecasts := make(map[string]domain.DemandForecast, len(productIDs))
	for _, id := range productIDs {
		forecasts[id] = domain.DemandForecast{TotalForecast: 280, AvgDaily: 40}
	}
	return forecasts, nil
}

func (stubForecaster) Train(ctx context.Context) (*forecast.Model, error) {
	return &forecast.Model{Products: map[string]forecast.ProductModel{"P001": {}}}, nil
}

type stubProducts []domain.Product

func (s stubProducts) Products(ctx context.Context) ([]domain.Product, error) {
	return s, nil
}

type stubRepo struct{}

func (stubRepo) ImportSales(ctx context.Context, data []byte) (domain.ImportStats, error) {
	return domain.ImportStats{Filename: "sales.csv", Rows: 3, Columns: []string{"date", "product_id", "quantity_sold", "day_of_week", "promotion"}}, nil
}

func (stubRepo) ImportProducts(ctx context.Context, data []byte) (domain.ImportStats, error) {
	return domain.ImportStats{Filename: "products.csv", Rows: 2, Columns: []string{"product_id", "product_name", "shelf_life_days", "category"}}, nil
}

func (stubRepo) ImportWeather(ctx context.Context, data []byte) (domain.ImportStats, error) {
	return domain.ImportStats{Filename: "weather.csv", Rows: 4, Columns: []string{"date", "temperature", "humidity", "precipitation"}}, nil
}
func (stubRepo) Sales(ctx context.Context) ([]domain.SalesRecord, error) {
	return nil, fmt.Errorf("sales: %w", domain.ErrNotFound)
}
func (stubRepo) Products(ctx context.Context) ([]domain.Product, error) {
	return nil, fmt.Errorf("products: %w", domain.ErrNotFound)
}
func (stubRepo) Weather(ctx context.Context) ([]domain.WeatherRecord, error) {
	return nil, fmt.Errorf("weather: %w", domain.ErrNotFound)
}

type stubModel struct{}

func (stubModel) Train(ctx context.Context) (*forecast.Model, error) { return &forecast.Model{}, nil }
func (stubModel) Invalidate(ctx context.Context)                     {}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.New(stubProducts{
		{ProductID: "P001", ProductName: "Whole Milk 1L", ShelfLifeDays: 7, Category: "dairy"},
	}, 7)

	services := &Services{
		PlanService:     service.NewPlanService(stubPlanner{}, nil),
		ForecastService: service.NewForecastService(stubForecaster{}, cat),
		DatasetService:  service.NewDatasetService(stubRepo{}, stubModel{}, nil),
		Catalog:         cat,
	}

	return NewRouter(services, Options{MaxUploadSizeMB: 1})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBuildPlan(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/plan",
		`{"product_ids":["P001"],"planning_horizon":14}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var plan domain.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Equal(t, 14, plan.PlanningHorizon)
	require.Equal(t, 1, plan.TotalProducts)
}

func TestBuildPlanDefaultsHorizon(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/plan", `{"product_ids":["P001"]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var plan domain.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Equal(t, 7, plan.PlanningHorizon)
}

func TestBuildPlanStatusFilter(t *testing.T) {
	router := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/plan",
		`{"product_ids":["P001"],"status_filter":"optimal"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan domain.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.StockPlan, 1)

	// Case-insensitive, and a non-matching filter empties the list while
	// keeping the portfolio counters.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/plan",
		`{"product_ids":["P001"],"status_filter":"Overstock"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Empty(t, plan.StockPlan)
	require.Equal(t, 1, plan.TotalProducts)
}

func TestBuildPlanUnknownStatusFilter(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/plan",
		`{"product_ids":["P001"],"status_filter":"balanced"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unknown stock status")
}

func TestBuildPlanEmptyProductList(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/plan", `{"product_ids":[]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredict(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/predict", `{"product_ids":["P001"]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Predictions    map[string]domain.DemandForecast `json:"predictions"`
		ForecastPeriod string                           `json:"forecast_period"`
		TotalProducts  int                              `json:"total_products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "7 days", resp.ForecastPeriod)
	require.Equal(t, 1, resp.TotalProducts)
	require.Equal(t, "Whole Milk 1L", resp.Predictions["P001"].ProductName)
}

func TestPredictDefaultsToCatalogSelection(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/predict", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Predictions map[string]domain.DemandForecast `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Predictions, "P001")
}

func TestProductInfo(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/products/P001/info", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var profile domain.ProductShelfProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, 7, profile.ShelfLifeDays)
}

func TestProductStats(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/products/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_products":1`)
	require.Contains(t, rec.Body.String(), `"dairy":1`)
}

func TestProductInfoNotFound(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodGet, "/api/v1/products/P999/info", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

type uploadFile struct {
	field    string
	filename string
	content  string
}

// newMultipart writes an upload form with one part per file into buf and
// returns the content type to send.
func newMultipart(t *testing.T, buf *bytes.Buffer, files ...uploadFile) string {
	t.Helper()
	writer := multipart.NewWriter(buf)
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return writer.FormDataContentType()
}

func doUpload(t *testing.T, files ...uploadFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	contentType := newMultipart(t, &buf, files...)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)
	return rec
}

func TestUploadSingleFile(t *testing.T) {
	rec := doUpload(t, uploadFile{"sales", "sales.csv", "date,product_id,quantity_sold\n"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message       string                        `json:"message"`
		UploadedFiles map[string]domain.ImportStats `json:"uploaded_files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Files uploaded successfully", resp.Message)
	require.Len(t, resp.UploadedFiles, 1)
	require.Equal(t, 3, resp.UploadedFiles["sales"].Rows)
	require.Contains(t, resp.UploadedFiles["sales"].Columns, "quantity_sold")
}

func TestUploadMultipleFiles(t *testing.T) {
	rec := doUpload(t,
		uploadFile{"sales", "june_sales.csv", "date,product_id,quantity_sold\n"},
		uploadFile{"products", "catalog.csv", "product_id,product_name\n"},
		uploadFile{"weather", "weather.csv", "date,temperature\n"},
	)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UploadedFiles map[string]domain.ImportStats `json:"uploaded_files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.UploadedFiles, 3)
	require.Equal(t, 3, resp.UploadedFiles["sales"].Rows)
	require.Equal(t, 2, resp.UploadedFiles["products"].Rows)
	require.Equal(t, 4, resp.UploadedFiles["weather"].Rows)
	require.Equal(t, "weather.csv", resp.UploadedFiles["weather"].Filename)
}

func TestUploadRejectsNonCSV(t *testing.T) {
	rec := doUpload(t, uploadFile{"sales", "sales.xlsx", "not a csv"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "only CSV files allowed")
}

func TestUploadIgnoresUnknownFields(t *testing.T) {
	// A file under an unrecognized field name is no file at all.
	rec := doUpload(t, uploadFile{"inventory", "inventory.csv", "sku,count\n"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "no valid files uploaded")
}

func TestUploadMissingFile(t *testing.T) {
	rec := doJSON(t, testRouter(t), http.MethodPost, "/api/v1/upload", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
