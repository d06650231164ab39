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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyPlan  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily costs recorded in the history database",
	Long: `Lists the per-plan daily costs recorded by earlier runs that used --db.
Without --plan it lists the plans present in the database.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&databasePath, "db", "", "sqlite history database")
	historyCmd.Flags().StringVar(&historyPlan, "plan", "", "plan title to list daily costs for")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 31, "maximum number of days to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if cfg.DatabasePath == "" {
		return &ConfigError{Field: "database_path", Message: "no history database configured; pass --db or set database_path"}
	}

	store, err := NewStore(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyPlan == "" {
		plans, err := store.ListPlans()
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			logger.UserMessage("No recorded plans. Run summarise or eiep13a with --db first.")
			return nil
		}
		logger.UserMessage("Recorded plans:")
		for _, title := range plans {
			logger.UserMessage("  %s", title)
		}
		return nil
	}

	daily, err := store.ListDailyResults(historyPlan, historyLimit)
	if err != nil {
		return err
	}
	if len(daily) == 0 {
		logger.UserMessage("No daily costs recorded for plan %q", historyPlan)
		return nil
	}

	logger.UserMessage("Daily costs for plan %q", historyPlan)
	logger.UserMessage("%-12s %12s %12s %12s %12s", "Date", "kWh", "Fixed", "Variable", "Total")
	logger.UserMessage("%s", strings.Repeat("-", 64))
	for _, day := range daily {
		total := day.FixedCost + day.VariableCost - day.ExportCredit
		logger.UserMessage("%-12s %12s %12s %12s %12s",
			day.Date.Format("2006-01-02"),
			humanize.CommafWithDigits(day.KWhTotal, 2),
			humanize.CommafWithDigits(day.FixedCost, 2),
			humanize.CommafWithDigits(day.VariableCost, 2),
			humanize.CommafWithDigits(total, 2),
		)
	}

	return nil
}
