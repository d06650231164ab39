// Copyright 2025 The ratescompare Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Reporter writes the combined monthly summary CSV and prints the per-plan
// console totals.
type Reporter struct {
	logger *Logger
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger.WithComponent("reporter"),
	}
}

// csvHeader matches the column order of the summary output.
var csvHeader = []string{
	"Title",
	"Month",
	"Monthly_kWh",
	"Days_in_month",
	"Fixed_cost",
	"Variable_cost",
	"Credits",
	"Discounts",
	"Total_cost",
}

// WriteCSV writes every plan's monthly rows, TOTAL rows included, to one
// CSV file. Failed plans are skipped here; PrintSummaries reports them.
func (r *Reporter) WriteCSV(result *SummaryResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i := range result.Plans {
		plan := &result.Plans[i]
		if plan.Err != nil {
			continue
		}
		for _, row := range plan.Rows {
			record := []string{
				row.PlanTitle,
				row.Label(),
				formatAmount(row.KWhTotal),
				strconv.Itoa(row.DaysInPeriod),
				formatAmount(row.FixedCost),
				formatAmount(row.VariableCost),
				formatAmount(row.ExportCredit),
				formatAmount(row.Discount),
				formatAmount(row.TotalCost()),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write summary row: %w", err)
			}
		}
	}

	return writer.Error()
}

// PrintSummaries prints the TOTAL block for every plan, including the ones
// that failed.
func (r *Reporter) PrintSummaries(result *SummaryResult) {
	for i := range result.Plans {
		plan := &result.Plans[i]

		r.logger.UserMessage("\n=== Summary for plan: %s ===", plan.Title)
		if plan.Err != nil {
			r.logger.UserMessage("  SKIPPED: %v", plan.Err)
			r.logger.UserMessage("========================================")
			continue
		}

		total := plan.Total()
		if total == nil {
			r.logger.UserMessage("  No usage data")
			r.logger.UserMessage("========================================")
			continue
		}

		r.logger.UserMessage("  Total days: %d", total.DaysInPeriod)
		r.logger.UserMessage("  Total usage: %s kWh", humanize.CommafWithDigits(total.KWhTotal, 2))
		r.logger.UserMessage("  Fixed cost: $%.2f", total.FixedCost)
		r.logger.UserMessage("  Variable cost: $%.2f", total.VariableCost)
		if total.ExportCredit > 0 {
			r.logger.UserMessage("  Credits from exports: $%.2f", total.ExportCredit)
		}
		if total.Discount > 0 {
			r.logger.UserMessage("  Discounts saved: $%.2f", total.Discount)
		}
		r.logger.UserMessage("  TOTAL cost: $%.2f", total.TotalCost())
		r.logger.UserMessage("========================================")
	}
}

// formatAmount renders a cost or kWh figure with two decimal places.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
