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
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PlanKind tags the rate-plan variant. Only these two shapes exist.
type PlanKind int

const (
	PlanFlat PlanKind = iota
	PlanBanded
)

// Band is a contiguous time-of-day range carrying a single per-kWh rate.
// Bands are half-open: a time t belongs to the band when Start <= t < End,
// so a boundary time belongs to the band that starts there.
type Band struct {
	Start TimeOfDay
	End   TimeOfDay
	Rate  float64
}

// UnmarshalYAML decodes the {start, end, rate} clock-time form used in
// rates.yaml. An end of "24:00" or "00:00" closes the day.
func (b *Band) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Start string  `yaml:"start"`
		End   string  `yaml:"end"`
		Rate  float64 `yaml:"rate"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	start, err := ParseTimeOfDay(raw.Start)
	if err != nil {
		return fmt.Errorf("band start: %w", err)
	}
	end, err := ParseTimeOfDay(raw.End)
	if err != nil {
		return fmt.Errorf("band end: %w", err)
	}
	if end == 0 {
		end = EndOfDay
	}

	b.Start = start
	b.End = end
	b.Rate = raw.Rate
	return nil
}

// Contains reports whether t falls inside the band's half-open range.
func (b Band) Contains(t TimeOfDay) bool {
	return t >= b.Start && t < b.End
}

// BandSet holds the per-day-type band lists of a banded plan.
type BandSet struct {
	Weekday []Band `yaml:"weekday"`
	Weekend []Band `yaml:"weekend"`
}

// ForDay selects the band list for a day type.
func (s *BandSet) ForDay(dt DayType) []Band {
	if dt == Weekend {
		return s.Weekend
	}
	return s.Weekday
}

// ExportRates describes how exported energy is credited. A plan may credit
// a single flat rate or time-of-day band lists per day type.
type ExportRates struct {
	Flat    float64 `yaml:"flat"`
	Weekday []Band  `yaml:"weekday"`
	Weekend []Band  `yaml:"weekend"`
}

// ForDay selects the export band list for a day type; empty means flat.
func (r *ExportRates) ForDay(dt DayType) []Band {
	if dt == Weekend {
		return r.Weekend
	}
	return r.Weekday
}

// RatePlan is one plan definition from rates.yaml. The presence of Bands
// selects the banded variant; otherwise the plan is flat.
type RatePlan struct {
	Title      string   `yaml:"title"`
	DailyRate  float64  `yaml:"daily_rate"`
	PerKWhRate float64  `yaml:"per_kwh_rate"`
	Bands      *BandSet `yaml:"bands"`

	// Optional feed-in credit for exported energy.
	ExportRates *ExportRates `yaml:"export_rates"`

	// Percentage discount applied to each month's net cost.
	FixedDiscount float64 `yaml:"fixed_discount"`
}

// Kind returns the plan variant.
func (p *RatePlan) Kind() PlanKind {
	if p.Bands != nil {
		return PlanBanded
	}
	return PlanFlat
}

// Validate checks rate signs and, for banded plans, that each day-type's
// bands partition the full 24-hour day with no gaps or overlaps. A plan
// that fails validation produces meaningless totals, so evaluation of the
// plan stops here.
func (p *RatePlan) Validate() error {
	if p.DailyRate < 0 {
		return &ConfigError{Field: "daily_rate", Message: fmt.Sprintf("plan %q: must not be negative", p.Title)}
	}
	if p.FixedDiscount < 0 || p.FixedDiscount > 100 {
		return &ConfigError{Field: "fixed_discount", Message: fmt.Sprintf("plan %q: must be a percentage between 0 and 100", p.Title)}
	}

	switch p.Kind() {
	case PlanFlat:
		if p.PerKWhRate < 0 {
			return &ConfigError{Field: "per_kwh_rate", Message: fmt.Sprintf("plan %q: must not be negative", p.Title)}
		}
	case PlanBanded:
		if err := validateBandPartition(p.Title, Weekday, p.Bands.Weekday); err != nil {
			return err
		}
		if err := validateBandPartition(p.Title, Weekend, p.Bands.Weekend); err != nil {
			return err
		}
	}

	if p.ExportRates != nil {
		if p.ExportRates.Flat < 0 {
			return &ConfigError{Field: "export_rates.flat", Message: fmt.Sprintf("plan %q: must not be negative", p.Title)}
		}
		// export band lists, when present, obey the same partition rule
		if len(p.ExportRates.Weekday) > 0 {
			if err := validateBandPartition(p.Title, Weekday, p.ExportRates.Weekday); err != nil {
				return err
			}
		}
		if len(p.ExportRates.Weekend) > 0 {
			if err := validateBandPartition(p.Title, Weekend, p.ExportRates.Weekend); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateBandPartition checks that bands cover exactly [00:00, 24:00)
// with no gaps and no overlaps.
func validateBandPartition(plan string, dt DayType, bands []Band) error {
	if len(bands) == 0 {
		return &InvalidBandPartitionError{Plan: plan, DayType: dt, Message: "no bands defined"}
	}
	if bands[0].Start != 0 {
		return &InvalidBandPartitionError{
			Plan: plan, DayType: dt,
			Message: fmt.Sprintf("first band starts at %s, not 00:00", bands[0].Start),
		}
	}
	for i, b := range bands {
		if b.Rate < 0 {
			return &InvalidBandPartitionError{
				Plan: plan, DayType: dt,
				Message: fmt.Sprintf("band %s-%s has a negative rate", b.Start, b.End),
			}
		}
		if b.End <= b.Start {
			return &InvalidBandPartitionError{
				Plan: plan, DayType: dt,
				Message: fmt.Sprintf("band %s-%s does not end after it starts", b.Start, b.End),
			}
		}
		if i > 0 && b.Start != bands[i-1].End {
			return &InvalidBandPartitionError{
				Plan: plan, DayType: dt,
				Message: fmt.Sprintf("gap or overlap between %s and %s", bands[i-1].End, b.Start),
			}
		}
	}
	if last := bands[len(bands)-1]; last.End != EndOfDay {
		return &InvalidBandPartitionError{
			Plan: plan, DayType: dt,
			Message: fmt.Sprintf("last band ends at %s, not 24:00", last.End),
		}
	}
	return nil
}

// VariableCost returns the cost of kwh consumed during [start, end) on date.
func (p *RatePlan) VariableCost(date time.Time, start, end TimeOfDay, kwh float64) (float64, error) {
	switch p.Kind() {
	case PlanFlat:
		return kwh * p.PerKWhRate, nil
	case PlanBanded:
		dt := DayTypeFor(date)
		return bandCost(p.Title, dt, p.Bands.ForDay(dt), start, end, kwh)
	}
	return 0, fmt.Errorf("plan %q: unknown plan kind", p.Title)
}

// ExportCredit returns the feed-in credit for kwh exported during
// [start, end) on date. Plans without export rates credit nothing.
func (p *RatePlan) ExportCredit(date time.Time, start, end TimeOfDay, kwh float64) (float64, error) {
	if p.ExportRates == nil {
		return 0, nil
	}
	dt := DayTypeFor(date)
	bands := p.ExportRates.ForDay(dt)
	if len(bands) == 0 {
		return kwh * p.ExportRates.Flat, nil
	}
	return bandCost(p.Title, dt, bands, start, end, kwh)
}

// bandCost looks up the band containing the interval start and prices the
// whole interval at that band's rate. An interval reaching past the band's
// end means the interval width does not divide the plan's boundaries.
func bandCost(plan string, dt DayType, bands []Band, start, end TimeOfDay, kwh float64) (float64, error) {
	for _, b := range bands {
		if b.Contains(start) {
			if end > b.End {
				return 0, &IntervalCrossesBandError{Plan: plan, Start: start, End: end, BandEnd: b.End}
			}
			return kwh * b.Rate, nil
		}
	}
	return 0, &UnmappedIntervalError{Plan: plan, DayType: dt, Start: start}
}

// LoadRatePlans reads a YAML file containing a list of rate plans. Plans are
// decoded here and validated individually at evaluation time, so one broken
// plan definition does not block the others.
func LoadRatePlans(path string) ([]RatePlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}

	var plans []RatePlan
	if err := yaml.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("failed to parse rates file: %w", err)
	}

	if len(plans) == 0 {
		return nil, &ConfigError{Field: "rates", Message: fmt.Sprintf("no rate plans defined in %s", path)}
	}

	for i := range plans {
		if plans[i].Title == "" {
			plans[i].Title = "Unknown"
		}
	}

	return plans, nil
}
