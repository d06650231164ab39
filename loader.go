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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the date formats accepted in input files.
var dateLayouts = []string{
	"2006-01-02",
	"2/01/2006",
	"02/01/2006",
}

// parseDate tries each accepted layout and returns the date at midnight UTC.
func parseDate(s string) (time.Time, error) {
	text := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// WideCSVLoader reads the wide day-per-row CSV layout where each interval
// is its own column. The date column and interval column names come from
// the configuration.
type WideCSVLoader struct {
	config *Config
	logger *Logger
}

// NewWideCSVLoader creates a new wide-CSV loader
func NewWideCSVLoader(config *Config, logger *Logger) *WideCSVLoader {
	return &WideCSVLoader{
		config: config,
		logger: logger.WithComponent("loader"),
	}
}

// Load reads the file into usage intervals. Blank cells are skipped;
// negative or unparseable readings are rejected, since the engine assumes
// kWh >= 0. Dates whose intervals do not cover the full day are passed
// through with a warning.
func (l *WideCSVLoader) Load(path string) ([]UsageInterval, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage file: %w", err)
	}
	defer file.Close()

	source := filepath.Base(path)
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &DataError{Source: source, Message: "missing header row"}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	dateIdx, ok := columns[l.config.DateColumn]
	if !ok {
		return nil, &DataError{Source: source, Message: fmt.Sprintf("date column %q not found", l.config.DateColumn)}
	}

	// Resolve interval columns up front so a bad layout fails before any
	// row is read, and normalise each label once.
	type intervalColumn struct {
		index int
		start TimeOfDay
		end   TimeOfDay
	}
	var missing []string
	intervalCols := make([]intervalColumn, 0, len(l.config.IntervalColumns))
	for _, name := range l.config.IntervalColumns {
		idx, ok := columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		start, end, err := ParseIntervalLabel(name, l.config.IntervalWidth())
		if err != nil {
			return nil, err
		}
		intervalCols = append(intervalCols, intervalColumn{index: idx, start: start, end: end})
	}
	if len(missing) > 0 {
		return nil, &DataError{Source: source, Message: fmt.Sprintf("interval columns missing: %s", strings.Join(missing, ", "))}
	}

	var intervals []UsageInterval
	coverage := make(map[time.Time]int)

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, &DataError{Source: source, Row: rowNum, Message: err.Error()}
		}

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, &DataError{Source: source, Row: rowNum, Message: err.Error()}
		}

		for _, col := range intervalCols {
			cell := strings.TrimSpace(record[col.index])
			if cell == "" {
				continue
			}
			kwh, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &DataError{Source: source, Row: rowNum, Message: fmt.Sprintf("unparseable reading %q", cell)}
			}
			if kwh < 0 {
				return nil, &DataError{Source: source, Row: rowNum, Message: fmt.Sprintf("negative reading %v at %s", kwh, col.start)}
			}
			intervals = append(intervals, UsageInterval{
				Date:      date,
				Start:     col.start,
				End:       col.end,
				KWh:       kwh,
				Direction: FlowImport,
			})
			coverage[date] += int(col.end - col.start)
		}
	}

	for date, minutes := range coverage {
		if minutes != MinutesPerDay {
			l.logger.LogDataQuality(date, minutes)
		}
	}

	l.logger.LogIntervalsLoaded(source, len(intervals), len(coverage))

	return intervals, nil
}
