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
	"fmt"
	"os"
	"sort"
	"time"

	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator handles chart generation
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: "light",
	}
}

// GenerateMonthlyCostChart renders one bar series per plan across the
// union of months present in the summaries and writes the PNG to path.
// Failed plans are left out.
func (cg *ChartGenerator) GenerateMonthlyCostChart(result *SummaryResult, path string) error {
	// Collect the union of months across plans
	monthSet := make(map[time.Time]bool)
	for i := range result.Plans {
		plan := &result.Plans[i]
		if plan.Err != nil {
			continue
		}
		for _, row := range plan.Rows {
			if !row.IsTotal {
				monthSet[row.Month] = true
			}
		}
	}
	if len(monthSet) == 0 {
		return fmt.Errorf("no monthly data available")
	}

	months := make([]time.Time, 0, len(monthSet))
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	var labels []string
	for _, month := range months {
		labels = append(labels, month.Format("Jan 2006"))
	}

	// Build one series per plan, zero-filled for months a plan lacks
	var values [][]float64
	var legendLabels []string
	for i := range result.Plans {
		plan := &result.Plans[i]
		if plan.Err != nil {
			continue
		}
		byMonth := make(map[time.Time]float64)
		for _, row := range plan.Rows {
			if !row.IsTotal {
				byMonth[row.Month] = row.TotalCost()
			}
		}
		series := make([]float64, 0, len(months))
		for _, month := range months {
			series = append(series, byMonth[month])
		}
		values = append(values, series)
		legendLabels = append(legendLabels, plan.Title)
	}
	if len(values) == 0 {
		return fmt.Errorf("no plans produced data to chart")
	}

	p, err := charts.BarRender(
		values,
		charts.TitleTextOptionFunc("Monthly Cost by Plan"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legendLabels, charts.PositionRight),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to render cost chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}

	return nil
}
