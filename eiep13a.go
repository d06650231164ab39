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

	"github.com/spf13/cobra"
)

var eiep13aCmd = &cobra.Command{
	Use:   "eiep13a <csvfile>...",
	Short: "Summarise usage and costs from EIEP13A interval files",
	Long: `Reads one or more EIEP13A detail files (half-hourly import/export rows),
prices them under every rate plan in the rates file, and writes the combined
monthly summary. Export rows are credited against plans that define
export_rates.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEIEP13A,
}

func init() {
	rootCmd.AddCommand(eiep13aCmd)
	eiep13aCmd.Flags().StringVar(&ratesFile, "rates", "", "rate plans file (default rates.yaml)")
	eiep13aCmd.Flags().StringVar(&outFile, "out", "", "output CSV file (default monthly_summary.csv)")
	eiep13aCmd.Flags().StringVar(&chartFile, "chart", "", "write a monthly cost comparison chart PNG")
	eiep13aCmd.Flags().StringVar(&databasePath, "db", "", "record readings and daily costs in a sqlite database")
}

func runEIEP13A(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var intervals []UsageInterval
	for _, path := range args {
		loaded, err := LoadEIEP13A(path, logger)
		if err != nil {
			return err
		}
		intervals = append(intervals, loaded...)
	}

	return executeRun(cfg, intervals, logger)
}

// datetimeLayouts are the read_start/read_end formats accepted in EIEP13A
// files; suppliers are not consistent about them.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2/01/2006 15:04",
	"02/01/2006 15:04:05",
}

func parseDatetime(s string) (time.Time, error) {
	text := strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// LoadEIEP13A parses one EIEP13A detail file (lowercase header style) into
// usage intervals. Only DET records are read; import rows become
// consumption intervals and export rows become export intervals.
func LoadEIEP13A(path string, logger *Logger) ([]UsageInterval, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EIEP13A file: %w", err)
	}
	defer file.Close()

	source := filepath.Base(path)
	log := logger.WithComponent("loader")
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &DataError{Source: source, Message: "missing header row"}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	required := []string{"rec_type", "read_start", "read_end", "energy_flow_direction", "kwh"}
	indexes := make(map[string]int, len(required))
	maxIdx := 0
	for _, name := range required {
		idx, ok := columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		indexes[name] = idx
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if len(missing) > 0 {
		return nil, &DataError{Source: source, Message: fmt.Sprintf("columns missing: %s", strings.Join(missing, ", "))}
	}

	var intervals []UsageInterval
	days := make(map[time.Time]bool)
	skipped := 0

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

		if len(record) <= maxIdx {
			skipped++
			continue
		}

		if strings.ToUpper(strings.TrimSpace(record[indexes["rec_type"]])) != "DET" {
			continue
		}

		var direction FlowDirection
		switch strings.ToUpper(strings.TrimSpace(record[indexes["energy_flow_direction"]])) {
		case "I":
			direction = FlowImport
		case "X":
			direction = FlowExport
		default:
			skipped++
			continue
		}

		readStart, err := parseDatetime(record[indexes["read_start"]])
		if err != nil {
			return nil, &DataError{Source: source, Row: rowNum, Message: err.Error()}
		}
		readEnd, err := parseDatetime(record[indexes["read_end"]])
		if err != nil {
			return nil, &DataError{Source: source, Row: rowNum, Message: err.Error()}
		}

		kwh := 0.0
		if cell := strings.TrimSpace(record[indexes["kwh"]]); cell != "" {
			kwh, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &DataError{Source: source, Row: rowNum, Message: fmt.Sprintf("unparseable reading %q", cell)}
			}
			if kwh < 0 {
				return nil, &DataError{Source: source, Row: rowNum, Message: fmt.Sprintf("negative reading %v", kwh)}
			}
		}

		date := time.Date(readStart.Year(), readStart.Month(), readStart.Day(), 0, 0, 0, 0, time.UTC)
		start := TimeOfDay(readStart.Hour()*60 + readStart.Minute())
		end := TimeOfDay(readEnd.Hour()*60 + readEnd.Minute())
		// a period ending at midnight belongs to the day it started
		if end == 0 {
			end = EndOfDay
		}
		if end <= start {
			return nil, &DataError{Source: source, Row: rowNum, Message: fmt.Sprintf("period %s-%s does not end after it starts", start, end)}
		}

		intervals = append(intervals, UsageInterval{
			Date:      date,
			Start:     start,
			End:       end,
			KWh:       kwh,
			Direction: direction,
		})
		days[date] = true
	}

	if skipped > 0 {
		log.Debug("Skipped rows with unknown flow direction", "source", source, "rows", skipped)
	}
	log.LogIntervalsLoaded(source, len(intervals), len(days))

	return intervals, nil
}
