// cmd/planctl/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/freshcast/backend-go/internal/catalog"
	"github.com/freshcast/backend-go/internal/config"
	"github.com/freshcast/backend-go/internal/forecast"
	"github.com/freshcast/backend-go/internal/planner"
	"github.com/freshcast/backend-go/internal/repository/csvstore"
	"github.com/freshcast/backend-go/internal/storage"
)

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing the uploaded CSV datasets",
		Value:   "./data",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newModelDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "model-dir",
		Usage:   "Directory holding the trained model artifact",
		Value:   "./models",
		EnvVars: []string{"APP_MODEL_DIR"},
	}
}

func newHorizonFlag(usage string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "days",
		Usage: usage,
		Value: 7,
	}
}

// buildComponents wires the forecaster and planner against local storage,
// mirroring the server wiring minus the HTTP layer.
func buildComponents(c *cli.Context) (*forecast.Forecaster, *planner.Planner, error) {
	cfg := config.Load()

	store, err := storage.New(cfg.Storage, c.String("model-dir"))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing object storage: %w", err)
	}

	datasets := csvstore.New(c.String("data-dir"))
	cat := catalog.New(datasets, cfg.Planner.DefaultShelfLife)

	forecastCfg := forecast.DefaultConfig()
	forecastCfg.FallbackDailyDemand = cfg.Planner.BaselineDailyDemand
	forecaster := forecast.New(datasets, store, forecastCfg)

	plannerCfg := planner.DefaultConfig()
	plannerCfg.MinServiceLevel = cfg.Planner.MinServiceLevel
	plannerCfg.SafetyStockCap = cfg.Planner.SafetyStockCap
	plannerCfg.ShelfLifeNormDays = cfg.Planner.ShelfLifeNormDays
	plannerCfg.DefaultShelfLife = cfg.Planner.DefaultShelfLife
	plannerCfg.BaselineDailyDemand = cfg.Planner.BaselineDailyDemand
	plannerCfg.UnitCost = cfg.Planner.UnitCost
	plannerCfg.HoldingCostRate = cfg.Planner.HoldingCostRate
	stockPlanner := planner.New(forecaster, cat, plannerCfg)

	return forecaster, stockPlanner, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "planctl",
		Usage: "Train the demand model and build stock plans from the command line",
		Commands: []*cli.Command{
			{
				Name:  "train",
				Usage: "Train the demand model from the current datasets",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newModelDirFlag(),
				},
				Action: func(c *cli.Context) error {
					forecaster, _, err := buildComponents(c)
					if err != nil {
						return err
					}

					model, err := forecaster.Train(c.Context)
					if err != nil {
						return err
					}

					return printJSON(map[string]any{
						"products":       len(model.Products),
						"global_mean":    model.GlobalMean,
						"validation_mae": model.ValidationMAE,
						"trained_at":     model.TrainedAt,
					})
				},
			},
			{
				Name:      "predict",
				Usage:     "Forecast demand for the given product ids",
				ArgsUsage: "PRODUCT_ID [PRODUCT_ID...]",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newModelDirFlag(),
					newHorizonFlag("Number of days to forecast"),
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("at least one product id is required")
					}

					forecaster, _, err := buildComponents(c)
					if err != nil {
						return err
					}

					forecasts, err := forecaster.Forecast(c.Context, c.Args().Slice(), c.Int("days"))
					if err != nil {
						return err
					}

					return printJSON(forecasts)
				},
			},
			{
				Name:      "plan",
				Usage:     "Build a stock plan; with no ids, plans a default catalog selection",
				ArgsUsage: "[PRODUCT_ID...]",
				Flags: []cli.Flag{
					newDataDirFlag(),
					newModelDirFlag(),
					newHorizonFlag("Planning horizon in days"),
				},
				Action: func(c *cli.Context) error {
					_, stockPlanner, err := buildComponents(c)
					if err != nil {
						return err
					}

					var productIDs []string
					if c.NArg() > 0 {
						productIDs = c.Args().Slice()
					}

					plan, err := stockPlanner.Plan(c.Context, productIDs, c.Int("days"))
					if err != nil {
						return err
					}

					return printJSON(plan)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
