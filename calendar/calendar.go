// Package calendar answers whether a calendar day is a working day, based
// on per-year holiday files. A file named holidays_YYYY.json lists the
// year's holidays, transferred working days and their descriptions; when
// the file for a year is missing, the calendar falls back to the plain
// weekend rule.
package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Holiday is a single non-working day with its display name.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Transfer records a working day moved from one date to another.
type Transfer struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Description string `json:"description"`
}

// yearData mirrors one holidays_YYYY.json file.
type yearData struct {
	Year        int        `json:"year"`
	Holidays    []Holiday  `json:"holidays"`
	WorkingDays []string   `json:"working_days"`
	Transfers   []Transfer `json:"transfers"`
}

// Calendar resolves day types from a directory of per-year holiday files.
// Years are loaded lazily and cached; Reload drops the cache so watch
// mode can pick up edited files.
type Calendar struct {
	dir string

	mu    sync.RWMutex
	years map[int]*yearData
}

// New creates a Calendar reading holiday files from dir.
func New(dir string) *Calendar {
	return &Calendar{
		dir:   dir,
		years: make(map[int]*yearData),
	}
}

// Reload drops all cached years; the next lookup re-reads the files.
func (c *Calendar) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years = make(map[int]*yearData)
}

// year returns the loaded data for a year, or nil when the file is
// missing or unreadable. Failed loads are cached as nil to avoid
// re-reading on every lookup.
func (c *Calendar) year(y int) *yearData {
	c.mu.RLock()
	data, ok := c.years[y]
	c.mu.RUnlock()
	if ok {
		return data
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok = c.years[y]; ok {
		return data
	}

	data = nil
	raw, err := os.ReadFile(filepath.Join(c.dir, fmt.Sprintf("holidays_%d.json", y)))
	if err == nil {
		var parsed yearData
		if err := json.Unmarshal(raw, &parsed); err == nil {
			data = &parsed
		}
	}
	c.years[y] = data
	return data
}

// IsWorkingDay reports whether the given day is a working day. Transferred
// working days override everything, then listed holidays, then the weekend
// rule. Without a holiday file for the year only weekends are non-working.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	data := c.year(date.Year())
	if data == nil {
		return !isWeekend(date)
	}

	key := date.Format("2006-01-02")
	if slices.Contains(data.WorkingDays, key) {
		return true
	}
	for _, holiday := range data.Holidays {
		if holiday.Date == key {
			return false
		}
	}
	return !isWeekend(date)
}

// HolidayName returns the display name of the holiday on the given day,
// or the transfer description for a transferred working day. It returns
// the empty string for ordinary days and unknown years.
func (c *Calendar) HolidayName(date time.Time) string {
	data := c.year(date.Year())
	if data == nil {
		return ""
	}

	key := date.Format("2006-01-02")
	for _, holiday := range data.Holidays {
		if holiday.Date == key {
			return holiday.Name
		}
	}
	if slices.Contains(data.WorkingDays, key) {
		for _, transfer := range data.Transfers {
			if transfer.To == key {
				return fmt.Sprintf("working day: %s", transfer.Description)
			}
		}
	}
	return ""
}

func isWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}
