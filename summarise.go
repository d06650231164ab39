// Copyright 2025 The ratescompare Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summariseCmd = &cobra.Command{
	Use:     "summarise <csvfile>",
	Aliases: []string{"summarize"},
	Short:   "Summarise usage and costs from a wide-format power CSV",
	Long: `Reads a power CSV with one row per day and one column per half-hour
interval (column layout comes from the config file), prices the usage under
every rate plan in the rates file, and writes the combined monthly summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

func init() {
	rootCmd.AddCommand(summariseCmd)
	summariseCmd.Flags().StringVar(&ratesFile, "rates", "", "rate plans file (default rates.yaml)")
	summariseCmd.Flags().StringVar(&outFile, "out", "", "output CSV file (default monthly_summary.csv)")
	summariseCmd.Flags().StringVar(&chartFile, "chart", "", "write a monthly cost comparison chart PNG")
	summariseCmd.Flags().StringVar(&databasePath, "db", "", "record readings and daily costs in a sqlite database")
}

func runSummarise(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ValidateWideLayout(); err != nil {
		return err
	}

	loader := NewWideCSVLoader(cfg, logger)
	intervals, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	return executeRun(cfg, intervals, logger)
}

// executeRun is the pipeline shared by the ingestion commands: load plans,
// evaluate, report, then the optional chart and history store.
func executeRun(cfg *Config, intervals []UsageInterval, logger *Logger) error {
	plans, err := LoadRatePlans(cfg.RatesFile)
	if err != nil {
		return err
	}

	engine := NewEngine(logger)
	result := engine.Evaluate(plans, intervals)

	reporter := NewReporter(logger)
	reporter.PrintSummaries(result)
	if err := reporter.WriteCSV(result, cfg.OutFile); err != nil {
		return err
	}
	logger.UserMessage("\nSaved multi-plan monthly summary to %s", cfg.OutFile)

	if cfg.ChartFile != "" {
		generator := NewChartGenerator()
		if err := generator.GenerateMonthlyCostChart(result, cfg.ChartFile); err != nil {
			logger.Warn("Failed to generate chart", "error", err)
		} else {
			logger.UserMessage("Saved monthly cost chart to %s", cfg.ChartFile)
		}
	}

	if cfg.DatabasePath != "" {
		store, err := NewStore(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveIntervals(intervals); err != nil {
			logger.Warn("Failed to record readings", "error", err)
		}
		for i := range result.Plans {
			plan := &result.Plans[i]
			if plan.Err != nil {
				continue
			}
			if err := store.SaveDailyResults(plan.Title, plan.Daily); err != nil {
				logger.Warn("Failed to record daily costs", "plan", plan.Title, "error", err)
			}
		}
	}

	failed := 0
	for i := range result.Plans {
		if result.Plans[i].Err != nil {
			failed++
		}
	}
	if failed == len(result.Plans) {
		return fmt.Errorf("all %d plans failed to evaluate", failed)
	}

	return nil
}
