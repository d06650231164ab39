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
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// The end of the day is the 24:00 sentinel, distinct from 00:00.
type TimeOfDay int

const (
	// MinutesPerDay is the number of minutes in one calendar day.
	MinutesPerDay = 24 * 60

	// EndOfDay is the 24:00 sentinel used as the exclusive upper bound
	// of the last interval or band of a day.
	EndOfDay TimeOfDay = MinutesPerDay
)

// String formats the time as HH:MM, with the end-of-day sentinel as 24:00.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ParseTimeOfDay parses a clock time string into minutes since midnight.
// Accepted forms are 24-hour "HH:MM" (including the "24:00" sentinel) and
// 12-hour "HH:MMam"/"HH:MMpm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	text := strings.ToLower(strings.TrimSpace(s))

	meridiem := ""
	if strings.HasSuffix(text, "am") || strings.HasSuffix(text, "pm") {
		meridiem = text[len(text)-2:]
		text = strings.TrimSpace(text[:len(text)-2])
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute out of range in %q", s)
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		// 24:00 is the end-of-day sentinel; anything past it is invalid
		if hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// ParseIntervalLabel normalises an interval column label into a {start, end}
// time-of-day pair. A label may be a range ("07:00-07:30", "07:00am-07:30am")
// or a bare start time ("07:00"), in which case the interval width supplies
// the end. An end of 00:00 on a range label is treated as the 24:00 sentinel.
func ParseIntervalLabel(label string, width time.Duration) (TimeOfDay, TimeOfDay, error) {
	text := strings.TrimSpace(label)
	if text == "" {
		return 0, 0, &MalformedIntervalLabelError{Label: label, Message: "empty label"}
	}

	if idx := strings.Index(text, "-"); idx >= 0 {
		start, err := ParseTimeOfDay(text[:idx])
		if err != nil {
			return 0, 0, &MalformedIntervalLabelError{Label: label, Message: err.Error()}
		}
		end, err := ParseTimeOfDay(text[idx+1:])
		if err != nil {
			return 0, 0, &MalformedIntervalLabelError{Label: label, Message: err.Error()}
		}
		// the final interval of the day may be written as ending at 00:00
		if end == 0 && start > 0 {
			end = EndOfDay
		}
		if end <= start {
			return 0, 0, &MalformedIntervalLabelError{Label: label, Message: "end is not after start"}
		}
		return start, end, nil
	}

	start, err := ParseTimeOfDay(text)
	if err != nil {
		return 0, 0, &MalformedIntervalLabelError{Label: label, Message: err.Error()}
	}
	end := start + TimeOfDay(width/time.Minute)
	if end <= start || end > EndOfDay {
		return 0, 0, &MalformedIntervalLabelError{Label: label, Message: "interval extends past end of day"}
	}
	return start, end, nil
}

// DayType classifies a calendar date for band selection.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

// String returns the day type name
func (d DayType) String() string {
	if d == Weekend {
		return "weekend"
	}
	return "weekday"
}

// DayTypeFor classifies a date as Weekday or Weekend.
func DayTypeFor(date time.Time) DayType {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}
