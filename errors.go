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
)

// MalformedIntervalLabelError reports an interval label that cannot be
// normalised into a time-of-day range
type MalformedIntervalLabelError struct {
	Label   string
	Message string
}

func (e *MalformedIntervalLabelError) Error() string {
	return fmt.Sprintf("malformed interval label %q: %s", e.Label, e.Message)
}

// InvalidBandPartitionError reports a banded plan whose weekday or weekend
// bands do not form a contiguous 24-hour partition
type InvalidBandPartitionError struct {
	Plan    string
	DayType DayType
	Message string
}

func (e *InvalidBandPartitionError) Error() string {
	return fmt.Sprintf("plan %q: invalid %s band partition: %s", e.Plan, e.DayType, e.Message)
}

// IntervalCrossesBandError reports a usage interval that spans a band
// boundary. The interval width is expected to divide the plan's band
// boundaries evenly; cost is never silently split across two bands.
type IntervalCrossesBandError struct {
	Plan    string
	Start   TimeOfDay
	End     TimeOfDay
	BandEnd TimeOfDay
}

func (e *IntervalCrossesBandError) Error() string {
	return fmt.Sprintf("plan %q: interval %s-%s crosses band boundary at %s", e.Plan, e.Start, e.End, e.BandEnd)
}

// UnmappedIntervalError reports an interval start that no band covers.
// With a validated partition this signals a malformed plan, not bad data.
type UnmappedIntervalError struct {
	Plan    string
	DayType DayType
	Start   TimeOfDay
}

func (e *UnmappedIntervalError) Error() string {
	return fmt.Sprintf("plan %q: no %s band covers interval starting at %s", e.Plan, e.DayType, e.Start)
}

// DataError represents invalid or missing input data
type DataError struct {
	Source  string
	Row     int
	Message string
}

func (e *DataError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data error in %s row %d: %s", e.Source, e.Row, e.Message)
	}
	return fmt.Sprintf("data error in %s: %s", e.Source, e.Message)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// StorageError represents a storage operation error
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s at %s: %v", e.Operation, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
