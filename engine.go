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
	"sort"
	"sync"
	"time"
)

// Engine evaluates rate plans against a table of usage intervals.
type Engine struct {
	logger *Logger
}

// NewEngine creates a new engine
func NewEngine(logger *Logger) *Engine {
	return &Engine{
		logger: logger.WithComponent("engine"),
	}
}

// Evaluate computes a monthly summary for every plan. Each plan reads the
// shared immutable inputs and writes only its own summary slot, so plans
// run concurrently; output order follows the order plans were supplied. A
// plan that fails validation or costing carries its error on its summary
// and does not disturb its siblings.
func (e *Engine) Evaluate(plans []RatePlan, intervals []UsageInterval) *SummaryResult {
	result := &SummaryResult{
		GeneratedAt: time.Now(),
		Plans:       make([]PlanSummary, len(plans)),
	}

	var wg sync.WaitGroup
	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result.Plans[i] = e.evaluatePlan(&plans[i], intervals)
		}(i)
	}
	wg.Wait()

	for i := range result.Plans {
		if err := result.Plans[i].Err; err != nil {
			e.logger.LogPlanFailed(result.Plans[i].Title, err)
		} else {
			e.logger.LogPlanEvaluated(result.Plans[i].Title, len(result.Plans[i].Rows)-1)
		}
	}

	return result
}

// evaluatePlan runs the full pipeline for one plan: validation, the daily
// fold, then monthly aggregation.
func (e *Engine) evaluatePlan(plan *RatePlan, intervals []UsageInterval) PlanSummary {
	summary := PlanSummary{Title: plan.Title}

	if err := plan.Validate(); err != nil {
		summary.Err = err
		return summary
	}

	daily, err := accumulateDaily(plan, intervals)
	if err != nil {
		summary.Err = err
		return summary
	}

	summary.Daily = daily
	summary.Rows = aggregateMonthly(plan, daily)
	return summary
}

// accumulateDaily folds every interval into per-date totals. The daily
// fixed charge is added exactly once per date present in the input,
// regardless of how many intervals that date has. Interval order does not
// affect the result.
func accumulateDaily(plan *RatePlan, intervals []UsageInterval) ([]DailyResult, error) {
	byDate := make(map[time.Time]*DailyResult)

	for _, iv := range intervals {
		day, ok := byDate[iv.Date]
		if !ok {
			day = &DailyResult{
				PlanTitle: plan.Title,
				Date:      iv.Date,
				FixedCost: plan.DailyRate,
			}
			byDate[iv.Date] = day
		}

		switch iv.Direction {
		case FlowExport:
			credit, err := plan.ExportCredit(iv.Date, iv.Start, iv.End, iv.KWh)
			if err != nil {
				return nil, err
			}
			day.ExportCredit += credit
		default:
			cost, err := plan.VariableCost(iv.Date, iv.Start, iv.End, iv.KWh)
			if err != nil {
				return nil, err
			}
			day.KWhTotal += iv.KWh
			day.VariableCost += cost
		}
	}

	results := make([]DailyResult, 0, len(byDate))
	for _, day := range byDate {
		results = append(results, *day)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})

	return results, nil
}

// aggregateMonthly groups daily results into chronological month rows and
// appends the plan's TOTAL row. The month discount is computed here from
// the month's net cost; every other cost field is a plain sum, so the
// TOTAL row's components always equal the sum of the month rows.
func aggregateMonthly(plan *RatePlan, daily []DailyResult) []MonthlySummaryRow {
	byMonth := make(map[time.Time]*MonthlySummaryRow)
	var months []time.Time

	for _, day := range daily {
		month := time.Date(day.Date.Year(), day.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		row, ok := byMonth[month]
		if !ok {
			row = &MonthlySummaryRow{PlanTitle: plan.Title, Month: month}
			byMonth[month] = row
			months = append(months, month)
		}
		row.KWhTotal += day.KWhTotal
		row.DaysInPeriod++
		row.FixedCost += day.FixedCost
		row.VariableCost += day.VariableCost
		row.ExportCredit += day.ExportCredit
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	rows := make([]MonthlySummaryRow, 0, len(months)+1)
	total := MonthlySummaryRow{PlanTitle: plan.Title, IsTotal: true}

	for _, month := range months {
		row := *byMonth[month]
		if plan.FixedDiscount > 0 {
			net := row.FixedCost + row.VariableCost - row.ExportCredit
			row.Discount = net * plan.FixedDiscount / 100
		}
		rows = append(rows, row)

		total.KWhTotal += row.KWhTotal
		total.DaysInPeriod += row.DaysInPeriod
		total.FixedCost += row.FixedCost
		total.VariableCost += row.VariableCost
		total.ExportCredit += row.ExportCredit
		total.Discount += row.Discount
	}

	return append(rows, total)
}
