package domain

import "time"

// Weekday is one of the seven canonical lowercase day names used as the
// schedule's partition key.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekdays is the fixed matching order for day headings. When a line
// contains more than one day name, the first name in this list wins.
var Weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ClassEntry is one scheduled item within a day: the trimmed original line
// and an optional extracted time. Time is empty when no pattern matched.
type ClassEntry struct {
	Text string `json:"text"`
	Time string `json:"time,omitempty"`
}

// Schedule maps weekday keys to the ordered classes mentioned under that
// day's heading. A key is present only for days the source text mentioned;
// a mentioned day with no class lines maps to an empty (non-nil) slice.
type Schedule map[Weekday][]ClassEntry

// Mentioned reports whether the day appeared as a heading in the source text.
func (s Schedule) Mentioned(d Weekday) bool {
	_, ok := s[d]
	return ok
}

// Classes returns the day's entries in source order, or an empty sequence
// when the day was not mentioned. It never fails.
func (s Schedule) Classes(d Weekday) []ClassEntry {
	return s[d]
}

// DayFor maps now's weekday to the canonical key (0=Sunday..6=Saturday).
func DayFor(now time.Time) Weekday {
	return Weekdays[int(now.Weekday())]
}

// TodayClasses returns the entries scheduled for now's weekday.
func TodayClasses(s Schedule, now time.Time) []ClassEntry {
	return s.Classes(DayFor(now))
}
