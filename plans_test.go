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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// testBandedPlan mirrors the documented example: cheap nights, peak days,
// a shoulder evening, and a single weekend rate.
func testBandedPlan() *RatePlan {
	return &RatePlan{
		Title:     "Banded",
		DailyRate: 0.40,
		Bands: &BandSet{
			Weekday: []Band{
				{Start: 0, End: 7 * 60, Rate: 0.10},
				{Start: 7 * 60, End: 19 * 60, Rate: 0.20},
				{Start: 19 * 60, End: EndOfDay, Rate: 0.15},
			},
			Weekend: []Band{
				{Start: 0, End: EndOfDay, Rate: 0.12},
			},
		},
	}
}

var (
	monday   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
)

func TestRatePlanKind(t *testing.T) {
	flat := &RatePlan{Title: "Flat", PerKWhRate: 0.15}
	assert.Equal(t, PlanFlat, flat.Kind())
	assert.Equal(t, PlanBanded, testBandedPlan().Kind())
}

func TestDecodeRatePlansYAML(t *testing.T) {
	doc := `
- title: Simple flat
  daily_rate: 0.50
  per_kwh_rate: 0.15
- title: Time of use
  daily_rate: 0.40
  fixed_discount: 10
  bands:
    weekday:
      - {start: "00:00", end: "07:00", rate: 0.10}
      - {start: "07:00", end: "19:00", rate: 0.20}
      - {start: "19:00", end: "24:00", rate: 0.15}
    weekend:
      - {start: "00:00", end: "00:00", rate: 0.12}
  export_rates:
    flat: 0.08
`
	var plans []RatePlan
	require.NoError(t, yaml.Unmarshal([]byte(doc), &plans))
	require.Len(t, plans, 2)

	flat := plans[0]
	assert.Equal(t, PlanFlat, flat.Kind())
	assert.Equal(t, 0.50, flat.DailyRate)
	assert.Equal(t, 0.15, flat.PerKWhRate)

	banded := plans[1]
	assert.Equal(t, PlanBanded, banded.Kind())
	require.Len(t, banded.Bands.Weekday, 3)
	assert.Equal(t, TimeOfDay(7*60), banded.Bands.Weekday[1].Start)
	assert.Equal(t, TimeOfDay(19*60), banded.Bands.Weekday[1].End)
	// "00:00" as a band end closes the day
	require.Len(t, banded.Bands.Weekend, 1)
	assert.Equal(t, EndOfDay, banded.Bands.Weekend[0].End)
	require.NotNil(t, banded.ExportRates)
	assert.Equal(t, 0.08, banded.ExportRates.Flat)
	assert.Equal(t, 10.0, banded.FixedDiscount)

	require.NoError(t, plans[0].Validate())
	require.NoError(t, plans[1].Validate())
}

func TestLoadRatePlans(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	doc := `
- daily_rate: 0.50
  per_kwh_rate: 0.15
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	plans, err := LoadRatePlans(path)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Unknown", plans[0].Title, "untitled plans get a placeholder title")

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRatePlans(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty plan list", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte("[]\n"), 0644))
		_, err := LoadRatePlans(empty)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestValidateBandPartition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RatePlan)
	}{
		{"gap between bands", func(p *RatePlan) {
			p.Bands.Weekday[1].Start = 8 * 60
		}},
		{"overlapping bands", func(p *RatePlan) {
			p.Bands.Weekday[1].Start = 6 * 60
		}},
		{"first band starts late", func(p *RatePlan) {
			p.Bands.Weekday[0].Start = 60
		}},
		{"last band ends early", func(p *RatePlan) {
			p.Bands.Weekday[2].End = 23 * 60
		}},
		{"no weekend bands", func(p *RatePlan) {
			p.Bands.Weekend = nil
		}},
		{"negative rate", func(p *RatePlan) {
			p.Bands.Weekend[0].Rate = -0.01
		}},
		{"empty band", func(p *RatePlan) {
			p.Bands.Weekday[0].End = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := testBandedPlan()
			tt.mutate(plan)
			err := plan.Validate()
			var partition *InvalidBandPartitionError
			require.ErrorAs(t, err, &partition)
			assert.Equal(t, "Banded", partition.Plan)
		})
	}
}

func TestVariableCostFlat(t *testing.T) {
	plan := &RatePlan{Title: "Flat", DailyRate: 0.50, PerKWhRate: 0.15}

	cost, err := plan.VariableCost(monday, 8*60, 8*60+30, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, cost, 1e-9)

	// flat cost ignores date and time of day
	weekend, err := plan.VariableCost(saturday, 23*60+30, EndOfDay, 2.0)
	require.NoError(t, err)
	assert.Equal(t, cost, weekend)
}

func TestVariableCostBanded(t *testing.T) {
	plan := testBandedPlan()

	t.Run("weekday peak", func(t *testing.T) {
		cost, err := plan.VariableCost(monday, 8*60, 8*60+30, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.20, cost, 1e-9)
	})

	t.Run("same interval on a Saturday", func(t *testing.T) {
		cost, err := plan.VariableCost(saturday, 8*60, 8*60+30, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.12, cost, 1e-9)
	})

	t.Run("boundary belongs to the band that starts there", func(t *testing.T) {
		cost, err := plan.VariableCost(monday, 7*60, 7*60+30, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.20, cost, 1e-9)
	})

	t.Run("last interval of the day", func(t *testing.T) {
		cost, err := plan.VariableCost(monday, 23*60+30, EndOfDay, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.15, cost, 1e-9)
	})

	t.Run("interval crossing a band boundary", func(t *testing.T) {
		_, err := plan.VariableCost(monday, 6*60+45, 7*60+15, 1.0)
		var crosses *IntervalCrossesBandError
		require.ErrorAs(t, err, &crosses)
		assert.Equal(t, TimeOfDay(7*60), crosses.BandEnd)
	})

	t.Run("unmapped interval on a malformed plan", func(t *testing.T) {
		// bypass Validate to exercise the lookup failure directly
		broken := testBandedPlan()
		broken.Bands.Weekday = broken.Bands.Weekday[:1]
		_, err := broken.VariableCost(monday, 12*60, 12*60+30, 1.0)
		var unmapped *UnmappedIntervalError
		require.ErrorAs(t, err, &unmapped)
		assert.Equal(t, TimeOfDay(12*60), unmapped.Start)
	})
}

func TestExportCredit(t *testing.T) {
	t.Run("no export rates", func(t *testing.T) {
		plan := testBandedPlan()
		credit, err := plan.ExportCredit(monday, 12*60, 12*60+30, 3.0)
		require.NoError(t, err)
		assert.Zero(t, credit)
	})

	t.Run("flat export rate", func(t *testing.T) {
		plan := testBandedPlan()
		plan.ExportRates = &ExportRates{Flat: 0.08}
		credit, err := plan.ExportCredit(monday, 12*60, 12*60+30, 3.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.24, credit, 1e-9)
	})

	t.Run("banded export rates", func(t *testing.T) {
		plan := testBandedPlan()
		plan.ExportRates = &ExportRates{
			Weekday: []Band{
				{Start: 0, End: 12 * 60, Rate: 0.05},
				{Start: 12 * 60, End: EndOfDay, Rate: 0.10},
			},
		}
		require.NoError(t, plan.Validate())

		credit, err := plan.ExportCredit(monday, 12*60, 12*60+30, 2.0)
		require.NoError(t, err)
		assert.InDelta(t, 0.20, credit, 1e-9)

		// weekend list absent: falls back to the flat rate (zero here)
		credit, err = plan.ExportCredit(saturday, 12*60, 12*60+30, 2.0)
		require.NoError(t, err)
		assert.Zero(t, credit)
	})
}

func TestValidateRejectsNegativeRates(t *testing.T) {
	plan := &RatePlan{Title: "Flat", DailyRate: -0.50, PerKWhRate: 0.15}
	var cfgErr *ConfigError
	require.ErrorAs(t, plan.Validate(), &cfgErr)

	plan = &RatePlan{Title: "Flat", PerKWhRate: -0.15}
	require.ErrorAs(t, plan.Validate(), &cfgErr)

	plan = &RatePlan{Title: "Flat", PerKWhRate: 0.15, FixedDiscount: 120}
	require.ErrorAs(t, plan.Validate(), &cfgErr)
}
