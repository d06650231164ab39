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
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Wide-CSV layout: which column carries the date and which columns
	// carry the interval readings.
	DateColumn      string   `yaml:"date_column"`
	IntervalColumns []string `yaml:"interval_columns"`

	// Width of one metering interval in minutes.
	IntervalMinutes int `yaml:"interval_minutes"`

	// Inputs and outputs
	RatesFile string `yaml:"rates_file"`
	OutFile   string `yaml:"out_file"`
	ChartFile string `yaml:"chart_file"`

	// Optional local history database
	DatabasePath string `yaml:"database_path"`

	// Debugging
	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set defaults
	config := &Config{
		IntervalMinutes: 30,
		RatesFile:       "rates.yaml",
		OutFile:         "monthly_summary.csv",
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnvironmentVariables()
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentVariables()

	return config, nil
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("RATESCOMPARE_RATES_FILE"); val != "" {
		c.RatesFile = val
	}
	if val := os.Getenv("RATESCOMPARE_OUT_FILE"); val != "" {
		c.OutFile = val
	}
	if val := os.Getenv("RATESCOMPARE_DATABASE"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("RATESCOMPARE_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}

// IntervalWidth returns the metering interval width as a duration.
func (c *Config) IntervalWidth() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Validate checks the settings every command relies on
func (c *Config) Validate() error {
	var errors []string

	if c.IntervalMinutes <= 0 {
		errors = append(errors, "interval_minutes must be positive")
	} else if MinutesPerDay%c.IntervalMinutes != 0 {
		errors = append(errors, "interval_minutes must divide a 24-hour day evenly")
	}

	if c.RatesFile == "" {
		errors = append(errors, "rates_file is required")
	}
	if c.OutFile == "" {
		errors = append(errors, "out_file is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateWideLayout checks the settings the wide-CSV loader additionally
// needs; EIEP13A files describe their own layout and skip this.
func (c *Config) ValidateWideLayout() error {
	var errors []string

	if c.DateColumn == "" {
		errors = append(errors, "date_column is required")
	}
	if len(c.IntervalColumns) == 0 {
		errors = append(errors, "interval_columns is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
