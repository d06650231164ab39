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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.IntervalMinutes)
	assert.Equal(t, 30*time.Minute, cfg.IntervalWidth())
	assert.Equal(t, "rates.yaml", cfg.RatesFile)
	assert.Equal(t, "monthly_summary.csv", cfg.OutFile)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	content := `
date_column: date
interval_columns: ["00:00", "00:30"]
interval_minutes: 30
rates_file: other_rates.yaml
`
	path := writeTempFile(t, "config.yaml", content)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "date", cfg.DateColumn)
	assert.Equal(t, []string{"00:00", "00:30"}, cfg.IntervalColumns)
	assert.Equal(t, "other_rates.yaml", cfg.RatesFile)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateWideLayout())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rates.yaml", cfg.RatesFile)
}

func TestConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("RATESCOMPARE_RATES_FILE", "env_rates.yaml")
	t.Setenv("RATESCOMPARE_OUT_FILE", "env_out.csv")
	t.Setenv("RATESCOMPARE_DEBUG", "1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env_rates.yaml", cfg.RatesFile)
	assert.Equal(t, "env_out.csv", cfg.OutFile)
	assert.True(t, cfg.Debug)
}

func TestConfigValidate(t *testing.T) {
	t.Run("interval width must divide the day", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		cfg.IntervalMinutes = 7
		assert.Error(t, cfg.Validate())
	})

	t.Run("interval width must be positive", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		cfg.IntervalMinutes = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("wide layout needs columns", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		err = cfg.ValidateWideLayout()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "date_column")
		assert.Contains(t, err.Error(), "interval_columns")
	})
}
