// internal/forecast/model.go
package forecast

import (
	"encoding/json"
	"fmt"
	"time"
)

// ModelKey is where the trained artifact lives in the object store.
const ModelKey = "models/demand_model.json"

// ProductModel holds the learned demand shape for one product.
type ProductModel struct {
	Mean         float64    `json:"mean"`
	WeekdayIndex [7]float64 `json:"weekday_index"` // indexed by time.Weekday
	Trend        float64    `json:"trend"`         // fractional change per day ahead
	Samples      int        `json:"samples"`
}

// Model is the persisted demand-model artifact.
type Model struct {
	Products        map[string]ProductModel `json:"products"`
	GlobalMean      float64                 `json:"global_mean"`
	TempCorrelation float64                 `json:"temperature_correlation"`
	ValidationMAE   float64                 `json:"validation_mae"`
	TrainedAt       time.Time               `json:"trained_at"`
}

func (m *Model) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return data, nil
}

func decodeModel(data []byte) (*Model, error) {
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if model.Products == nil {
		model.Products = make(map[string]ProductModel)
	}
	return &model, nil
}
