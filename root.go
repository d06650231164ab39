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

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	debugLog bool
	jsonLogs bool

	// per-command overrides of the config file settings
	ratesFile    string
	outFile      string
	chartFile    string
	databasePath string
)

var rootCmd = &cobra.Command{
	Use:   "ratescompare",
	Short: "Compare electricity rate plans against interval usage data",
	Long: `ratescompare prices half-hourly electricity usage under one or more
rate plans (flat or time-of-day banded) and summarises the cost per month,
per plan, so plans can be compared side by side.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
	rootCmd.Version = GetVersion()
}

// newLogger builds the logger the persistent flags ask for
func newLogger() *Logger {
	if jsonLogs {
		return NewJSONLogger(debugLog)
	}
	return NewLogger(debugLog)
}

// applyFlagOverrides copies any set command flags over the file config
func applyFlagOverrides(cfg *Config) {
	if ratesFile != "" {
		cfg.RatesFile = ratesFile
	}
	if outFile != "" {
		cfg.OutFile = outFile
	}
	if chartFile != "" {
		cfg.ChartFile = chartFile
	}
	if databasePath != "" {
		cfg.DatabasePath = databasePath
	}
	if debugLog {
		cfg.Debug = true
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
