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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"), NewLogger(false))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveIntervals(t *testing.T) {
	store := testStore(t)

	intervals := []UsageInterval{
		{Date: monday, Start: 8 * 60, End: 8*60 + 30, KWh: 0.5},
		{Date: monday, Start: 8*60 + 30, End: 9 * 60, KWh: 0.75},
	}
	require.NoError(t, store.SaveIntervals(intervals))

	// re-saving the same readings is a no-op
	require.NoError(t, store.SaveIntervals(intervals))

	var count int
	require.NoError(t, store.conn.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestStoreDailyResultsRoundTrip(t *testing.T) {
	store := testStore(t)

	daily := []DailyResult{
		{PlanTitle: "Flat", Date: monday, KWhTotal: 24.0, FixedCost: 0.50, VariableCost: 3.60},
		{PlanTitle: "Flat", Date: monday.AddDate(0, 0, 1), KWhTotal: 20.0, FixedCost: 0.50, VariableCost: 3.00, ExportCredit: 0.40},
	}
	require.NoError(t, store.SaveDailyResults("Flat", daily))

	got, err := store.ListDailyResults("Flat", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// most recent first
	assert.Equal(t, monday.AddDate(0, 0, 1), got[0].Date)
	assert.Equal(t, 20.0, got[0].KWhTotal)
	assert.Equal(t, 0.40, got[0].ExportCredit)
	assert.Equal(t, monday, got[1].Date)
	assert.Equal(t, "Flat", got[1].PlanTitle)

	t.Run("latest run wins", func(t *testing.T) {
		update := []DailyResult{
			{PlanTitle: "Flat", Date: monday, KWhTotal: 25.0, FixedCost: 0.50, VariableCost: 3.75},
		}
		require.NoError(t, store.SaveDailyResults("Flat", update))

		got, err := store.ListDailyResults("Flat", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 25.0, got[1].KWhTotal)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.ListDailyResults("Flat", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown plan", func(t *testing.T) {
		got, err := store.ListDailyResults("Nope", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStoreListPlans(t *testing.T) {
	store := testStore(t)

	day := []DailyResult{{Date: monday, KWhTotal: 1, FixedCost: 0.5, VariableCost: 0.15}}
	require.NoError(t, store.SaveDailyResults("Tou", day))
	require.NoError(t, store.SaveDailyResults("Flat", day))

	plans, err := store.ListPlans()
	require.NoError(t, err)
	assert.Equal(t, []string{"Flat", "Tou"}, plans)
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "history.db")

	store, err := NewStore(path, NewLogger(false))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveIntervals([]UsageInterval{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Start: 0, End: 30, KWh: 0.1},
	}))
}
