package domain

import (
	"testing"
	"time"
)

func TestDayFor(t *testing.T) {
	// 2025-05-04 is a Sunday.
	base := time.Date(2025, time.May, 4, 12, 0, 0, 0, time.UTC)
	want := []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
	for i, w := range want {
		if got := DayFor(base.AddDate(0, 0, i)); got != w {
			t.Errorf("day %d: want %s, got %s", i, w, got)
		}
	}
}

func TestTodayClasses(t *testing.T) {
	s := Schedule{
		Monday: {{Text: "Math [09:00-10:00]"}},
	}
	monday := time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC)
	if got := TodayClasses(s, monday); len(got) != 1 || got[0].Text != "Math [09:00-10:00]" {
		t.Fatalf("monday: got %+v", got)
	}
	tuesday := monday.AddDate(0, 0, 1)
	if got := TodayClasses(s, tuesday); len(got) != 0 {
		t.Fatalf("tuesday: want empty, got %+v", got)
	}
}
