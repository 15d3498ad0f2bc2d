package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// maxReminderLines caps how many classes a reminder lists individually;
// the rest collapse into an "...and N more" suffix.
const maxReminderLines = 3

// classNameRE captures the class name preceding a bracketed time block,
// e.g. "MATH 101 [09:00-10:00]".
var classNameRE = regexp.MustCompile(`^([A-Z\s0-9()]+)\s*\[`)

// classStartRE captures the start time inside a bracketed time block.
var classStartRE = regexp.MustCompile(`\[(\d{2}:\d{2})-(\d{2}:\d{2})`)

// BuildReminder renders the daily reminder for today's classes.
//
// Zero entries produce the "no classes" message. Otherwise each entry is
// rendered as "HH:MM - Name" when the name/time re-extraction succeeds and
// as the raw line when it does not, truncated to the first three entries
// with a remainder count.
func BuildReminder(classes []ClassEntry) (title, body string) {
	if len(classes) == 0 {
		return "No Classes Today! 🎉", "You have no classes scheduled for today. Enjoy your day!"
	}

	lines := make([]string, 0, len(classes))
	for _, c := range classes {
		name := c.Text
		if m := classNameRE.FindStringSubmatch(c.Text); m != nil {
			name = strings.TrimSpace(m[1])
		}
		start := ""
		if m := classStartRE.FindStringSubmatch(c.Text); m != nil {
			start = m[1]
		}
		if start != "" {
			lines = append(lines, start+" - "+name)
		} else {
			lines = append(lines, name)
		}
	}

	shown := lines
	if len(shown) > maxReminderLines {
		shown = shown[:maxReminderLines]
	}
	body = strings.Join(shown, "\n")
	if rest := len(classes) - maxReminderLines; rest > 0 {
		body += fmt.Sprintf("\n...and %d more", rest)
	}

	plural := "class"
	if len(classes) > 1 {
		plural = "classes"
	}
	title = fmt.Sprintf("📚 You have %d %s today", len(classes), plural)
	return title, body
}
