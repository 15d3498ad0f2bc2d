package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmptyClock   = errors.New("empty time")
	ErrInvalidClock = errors.New("invalid time, expected HH:MM")
)

// timeRangeRE matches the "(time: 10:30-01:00)" form used by saved routines.
var timeRangeRE = regexp.MustCompile(`(?i)\(time:\s*(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*\)`)

// clockRE matches a bare clock time or an am/pm hour, e.g. "9:00", "11:00 AM".
var clockRE = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}|\d{1,2}\s*(?:am|pm))`)

// Parse turns free-form routine text into a weekly schedule.
//
// A line that contains a day name (substring match, Weekdays order wins)
// becomes the current day heading and is never a class. Any other non-empty
// line under a heading becomes a ClassEntry. Lines before the first
// recognized heading are dropped. Malformed input never fails; the worst
// case is an empty schedule.
func Parse(text string) Schedule {
	schedule := Schedule{}
	var current Weekday
	haveDay := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if day, ok := matchDay(strings.ToLower(line)); ok {
			current = day
			haveDay = true
			schedule[current] = []ClassEntry{}
			continue
		}
		if !haveDay {
			continue
		}

		schedule[current] = append(schedule[current], ClassEntry{
			Text: line,
			Time: ExtractTimeRange(line),
		})
	}
	return schedule
}

// matchDay tests the line against the fixed day list. Substring matching is
// deliberate: "Monday:" and "-- monday --" both count as headings.
func matchDay(lower string) (Weekday, bool) {
	for _, d := range Weekdays {
		if strings.Contains(lower, string(d)) {
			return d, true
		}
	}
	return "", false
}

// ExtractTimeRange extracts the first "(time: HH:MM-HH:MM)" block from a
// class line, normalized to "HH:MM-HH:MM". Empty string when absent.
func ExtractTimeRange(line string) string {
	m := timeRangeRE.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return padClock(m[1]) + "-" + padClock(m[2])
}

// ExtractClockTime extracts the first bare time-like token ("9:00",
// "10:30", "11 am") from a class line. Used on the display path; the saved
// schedule's Time field comes from ExtractTimeRange instead.
func ExtractClockTime(line string) string {
	return clockRE.FindString(line)
}

// NormalizeClock validates a 24-hour "H:MM" or "HH:MM" string and returns
// it zero-padded to "HH:MM".
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyClock
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("%w: bad hour %q", ErrInvalidClock, parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("%w: bad minute %q", ErrInvalidClock, parts[1])
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

func padClock(s string) string {
	if len(s) == 4 { // H:MM
		return "0" + s
	}
	return s
}
