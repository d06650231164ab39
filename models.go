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
	"time"
)

// FlowDirection indicates whether energy flowed from the grid to the meter
// or back out (solar/battery export).
type FlowDirection int

const (
	FlowImport FlowDirection = iota
	FlowExport
)

// String returns the single-letter EIEP13A flow code
func (f FlowDirection) String() string {
	if f == FlowExport {
		return "X"
	}
	return "I"
}

// UsageInterval is one metered reading: KWh consumed (or exported) during
// [Start, End) on Date. Date is midnight UTC.
type UsageInterval struct {
	Date      time.Time     `json:"date"`
	Start     TimeOfDay     `json:"start"`
	End       TimeOfDay     `json:"end"`
	KWh       float64       `json:"kwh"`
	Direction FlowDirection `json:"direction"`
}

// DailyResult is the cost of one calendar day's usage under one plan.
type DailyResult struct {
	PlanTitle    string    `json:"planTitle"`
	Date         time.Time `json:"date"`
	KWhTotal     float64   `json:"kwhTotal"`
	FixedCost    float64   `json:"fixedCost"`
	VariableCost float64   `json:"variableCost"`
	ExportCredit float64   `json:"exportCredit"`
}

// MonthlySummaryRow is one month's totals for one plan, or the trailing
// TOTAL row summing every month.
type MonthlySummaryRow struct {
	PlanTitle    string    `json:"planTitle"`
	Month        time.Time `json:"month"` // first day of the month; zero for the TOTAL row
	IsTotal      bool      `json:"isTotal"`
	KWhTotal     float64   `json:"kwhTotal"`
	DaysInPeriod int       `json:"daysInPeriod"`
	FixedCost    float64   `json:"fixedCost"`
	VariableCost float64   `json:"variableCost"`
	ExportCredit float64   `json:"exportCredit"`
	Discount     float64   `json:"discount"`
}

// Label returns the month label for output ("2024-07", or "TOTAL").
func (r MonthlySummaryRow) Label() string {
	if r.IsTotal {
		return "TOTAL"
	}
	return r.Month.Format("2006-01")
}

// TotalCost is always derived from the row's components so it can never
// drift from them.
func (r MonthlySummaryRow) TotalCost() float64 {
	return r.FixedCost + r.VariableCost - r.ExportCredit - r.Discount
}

// PlanSummary holds one plan's full evaluation: its daily breakdown and
// monthly rows, or the error that stopped it.
type PlanSummary struct {
	Title string              `json:"title"`
	Daily []DailyResult       `json:"daily,omitempty"`
	Rows  []MonthlySummaryRow `json:"rows,omitempty"`
	Err   error               `json:"-"`
}

// Total returns the plan's trailing TOTAL row, or nil for a failed plan.
func (p *PlanSummary) Total() *MonthlySummaryRow {
	if len(p.Rows) == 0 {
		return nil
	}
	last := &p.Rows[len(p.Rows)-1]
	if !last.IsTotal {
		return nil
	}
	return last
}

// SummaryResult is the engine's output: one summary per plan, in the order
// the plans were supplied.
type SummaryResult struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Plans       []PlanSummary `json:"plans"`
}

// ByTitle returns the summary for the named plan, or nil.
func (s *SummaryResult) ByTitle(title string) *PlanSummary {
	for i := range s.Plans {
		if s.Plans[i].Title == title {
			return &s.Plans[i]
		}
	}
	return nil
}
