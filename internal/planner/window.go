package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pawpal/internal/model"
)

// Window is a contiguous span of availability within one day.
type Window struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
}

// DefaultWindow is used when a user has no parseable availability.
func DefaultWindow() Window {
	return Window{Start: model.ClockTime(9, 0), End: model.ClockTime(17, 0)}
}

// ParseWindow parses an availability string of the form "HH:MM-HH:MM".
// Bare-hour forms like "9-17" are tolerated.
func ParseWindow(s string) (Window, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("invalid window %q, expected HH:MM-HH:MM", s)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return Window{}, fmt.Errorf("invalid window %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Window{}, fmt.Errorf("invalid window %q: %w", s, err)
	}
	if !start.Before(end) {
		return Window{}, fmt.Errorf("invalid window %q: end not after start", s)
	}
	return Window{Start: start, End: end}, nil
}

// Windows parses the user's availability entries into an ordered set of
// windows. Malformed entries are dropped; if nothing parses, the 09:00-17:00
// default is used.
func Windows(entries []string) []Window {
	var windows []Window
	for _, entry := range entries {
		w, err := ParseWindow(entry)
		if err != nil {
			continue
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return []Window{DefaultWindow()}
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

func parseClock(s string) (model.TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hourPart, minutePart, hasMinute := strings.Cut(s, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil || hour < 0 || hour > 23 {
		return model.TimeOfDay{}, fmt.Errorf("bad hour %q", s)
	}
	minute := 0
	if hasMinute {
		minute, err = strconv.Atoi(strings.TrimSpace(minutePart))
		if err != nil || minute < 0 || minute > 59 {
			return model.TimeOfDay{}, fmt.Errorf("bad minute %q", s)
		}
	}
	return model.ClockTime(hour, minute), nil
}
