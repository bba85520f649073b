// internal/repository/csvstore/store.go
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/gocarina/gocsv"
)

const (
	salesFile    = "sales.csv"
	productsFile = "products.csv"
	weatherFile  = "weather.csv"
)

var requiredColumns = map[string][]string{
	salesFile:    {"date", "product_id", "quantity_sold", "day_of_week", "promotion"},
	productsFile: {"product_id", "product_name", "shelf_life_days", "category"},
	weatherFile:  {"date", "temperature", "humidity", "precipitation"},
}

// Store persists the uploaded datasets as CSV files under a data directory,
// matching the layout the demand model is trained from.
type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) ImportSales(ctx context.Context, data []byte) (domain.ImportStats, error) {
	var rows []*domain.SalesRecord
	return s.importDataset(salesFile, data, &rows)
}

func (s *Store) ImportProducts(ctx context.Context, data []byte) (domain.ImportStats, error) {
	var rows []*domain.Product
	return s.importDataset(productsFile, data, &rows)
}

func (s *Store) ImportWeather(ctx context.Context, data []byte) (domain.ImportStats, error) {
	var rows []*domain.WeatherRecord
	return s.importDataset(weatherFile, data, &rows)
}

func (s *Store) Sales(ctx context.Context) ([]domain.SalesRecord, error) {
	var rows []domain.SalesRecord
	if err := s.loadDataset(salesFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	if err := s.loadDataset(productsFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Weather(ctx context.Context) ([]domain.WeatherRecord, error) {
	var rows []domain.WeatherRecord
	if err := s.loadDataset(weatherFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// importDataset validates the header, checks the rows parse, and persists
// the raw CSV so later loads see exactly what was uploaded.
func (s *Store) importDataset(filename string, data []byte, rows interface{}) (domain.ImportStats, error) {
	columns, err := parseHeader(filename, data)
	if err != nil {
		return domain.ImportStats{}, err
	}

	if err := gocsv.UnmarshalBytes(data, rows); err != nil {
		return domain.ImportStats{}, fmt.Errorf("%w: malformed %s: %v", domain.ErrValidation, filename, err)
	}

	if err := os.WriteFile(s.path(filename), data, 0o644); err != nil {
		return domain.ImportStats{}, fmt.Errorf("persisting %s: %w", filename, err)
	}

	return domain.ImportStats{
		Filename: filename,
		Rows:     rowCount(data),
		Columns:  columns,
	}, nil
}

func (s *Store) loadDataset(filename string, rows interface{}) error {
	data, err := os.ReadFile(s.path(filename))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: dataset %s has not been uploaded", domain.ErrNotFound, filename)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	if err := gocsv.UnmarshalBytes(data, rows); err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}
	return nil
}

func (s *Store) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

// parseHeader checks the required columns are present and returns the header
// columns as uploaded.
func parseHeader(filename string, data []byte) ([]string, error) {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no readable header row", domain.ErrValidation, filename)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
		present[strings.ToLower(columns[i])] = true
	}

	var missing []string
	for _, col := range requiredColumns[filename] {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s is missing required columns: %s",
			domain.ErrValidation, filename, strings.Join(missing, ", "))
	}
	return columns, nil
}

func rowCount(data []byte) int {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	count := 0
	for {
		if _, err := reader.Read(); err != nil {
			break
		}
		count++
	}
	if count > 0 {
		count-- // header row
	}
	return count
}
