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
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists readings and per-plan daily costs to a local sqlite
// database so later runs can be compared with the history command.
type Store struct {
	conn   *sql.DB
	path   string
	logger *Logger
}

// NewStore opens (and if necessary creates) the history database.
func NewStore(path string, logger *Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Operation: "create_directory", Path: dir, Err: err}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Operation: "open_database", Path: path, Err: err}
	}

	store := &Store{
		conn:   conn,
		path:   path,
		logger: logger.WithComponent("storage"),
	}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, &StorageError{Operation: "initialize_schema", Path: path, Err: err}
	}

	store.logger.Debug("History database opened", "path", path)

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		kwh REAL NOT NULL,
		direction TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(date, start_minute, direction)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_date ON readings(date);
	CREATE TABLE IF NOT EXISTS daily_costs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan TEXT NOT NULL,
		date TEXT NOT NULL,
		kwh REAL NOT NULL,
		fixed_cost REAL NOT NULL,
		variable_cost REAL NOT NULL,
		export_credit REAL NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(plan, date)
	);
	CREATE INDEX IF NOT EXISTS idx_daily_costs_plan ON daily_costs(plan);
	CREATE INDEX IF NOT EXISTS idx_daily_costs_date ON daily_costs(date);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// SaveIntervals records usage readings, ignoring duplicates from earlier
// runs over the same files.
func (s *Store) SaveIntervals(intervals []UsageInterval) error {
	s.logger.LogStorageOperation("save_readings", s.path)

	tx, err := s.conn.Begin()
	if err != nil {
		return &StorageError{Operation: "save_readings", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO readings (date, start_minute, end_minute, kwh, direction, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &StorageError{Operation: "save_readings", Path: s.path, Err: err}
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, iv := range intervals {
		_, err := stmt.Exec(iv.Date.Format("2006-01-02"), int(iv.Start), int(iv.End), iv.KWh, iv.Direction.String(), createdAt)
		if err != nil {
			return &StorageError{Operation: "save_readings", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Operation: "save_readings", Path: s.path, Err: err}
	}

	return nil
}

// SaveDailyResults records one plan's daily costs. The latest run wins for
// each (plan, date).
func (s *Store) SaveDailyResults(plan string, daily []DailyResult) error {
	s.logger.LogStorageOperation("save_daily_costs", s.path)

	tx, err := s.conn.Begin()
	if err != nil {
		return &StorageError{Operation: "save_daily_costs", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO daily_costs (plan, date, kwh, fixed_cost, variable_cost, export_credit, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &StorageError{Operation: "save_daily_costs", Path: s.path, Err: err}
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, day := range daily {
		_, err := stmt.Exec(plan, day.Date.Format("2006-01-02"), day.KWhTotal, day.FixedCost, day.VariableCost, day.ExportCredit, createdAt)
		if err != nil {
			return &StorageError{Operation: "save_daily_costs", Path: s.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Operation: "save_daily_costs", Path: s.path, Err: err}
	}

	return nil
}

// ListDailyResults retrieves a plan's recorded daily costs, most recent
// first.
func (s *Store) ListDailyResults(plan string, limit int) ([]DailyResult, error) {
	s.logger.LogStorageOperation("list_daily_costs", s.path)

	query := `
	SELECT date, kwh, fixed_cost, variable_cost, export_credit
	FROM daily_costs
	WHERE plan = ?
	ORDER BY date DESC
	LIMIT ?
	`

	rows, err := s.conn.Query(query, plan, limit)
	if err != nil {
		return nil, &StorageError{Operation: "list_daily_costs", Path: s.path, Err: err}
	}
	defer rows.Close()

	var results []DailyResult
	for rows.Next() {
		day := DailyResult{PlanTitle: plan}
		var dateStr string

		if err := rows.Scan(&dateStr, &day.KWhTotal, &day.FixedCost, &day.VariableCost, &day.ExportCredit); err != nil {
			return nil, &StorageError{Operation: "list_daily_costs", Path: s.path, Err: err}
		}

		day.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, &StorageError{Operation: "list_daily_costs", Path: s.path, Err: err}
		}

		results = append(results, day)
	}

	return results, rows.Err()
}

// ListPlans retrieves the plan titles present in the database.
func (s *Store) ListPlans() ([]string, error) {
	rows, err := s.conn.Query(`SELECT DISTINCT plan FROM daily_costs ORDER BY plan`)
	if err != nil {
		return nil, &StorageError{Operation: "list_plans", Path: s.path, Err: err}
	}
	defer rows.Close()

	var plans []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, &StorageError{Operation: "list_plans", Path: s.path, Err: err}
		}
		plans = append(plans, title)
	}

	return plans, rows.Err()
}
