package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ExtractFields parses a free-text message into booking fields. Every field
// is independently optional; a pattern that fails to match resolves to an
// empty field, never an error. Relative dates are resolved against the
// current UTC day.
func ExtractFields(text string) ExtractedFields {
	return extractFieldsAt(text, time.Now().UTC())
}

func extractFieldsAt(text string, now time.Time) ExtractedFields {
	return ExtractedFields{
		Date:     extractDate(text, now),
		Time:     extractTime(text),
		Timezone: extractTimezone(text),
		Name:     extractName(text),
		Email:    extractEmail(text),
		Phone:    extractPhone(text),
		Notes:    extractNotes(text),
	}
}

const isoDate = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var (
	todayRE       = regexp.MustCompile(`\btoday\b`)
	tomorrowRE    = regexp.MustCompile(`\btomorrow\b`)
	nextWeekdayRE = regexp.MustCompile(`\b(?:next\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

// dateStrategy is one named absolute-date parser. Strategies are tried in
// declaration order; the first one whose pattern matches and parses to a
// valid calendar date wins. Invalid dates (month 13, Feb 30) fall through
// to the next strategy.
type dateStrategy struct {
	name    string
	pattern *regexp.Regexp
	layouts []string
}

var dateStrategies = []dateStrategy{
	{
		name:    "mm/dd/yyyy",
		pattern: regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
		layouts: []string{"1/2/2006"},
	},
	{
		name:    "mm/dd/yy",
		pattern: regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2})\b`),
		layouts: []string{"1/2/06"},
	},
	{
		name:    "mm-dd-yyyy",
		pattern: regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`),
		layouts: []string{"1-2-2006"},
	},
	{
		name:    "yyyy-mm-dd",
		pattern: regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`),
		layouts: []string{"2006-1-2"},
	},
	{
		name:    "dd month yyyy",
		pattern: regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+,?\s+\d{4})\b`),
		layouts: []string{"2 January 2006", "2 Jan 2006", "2 January, 2006"},
	},
	{
		name:    "month dd, yyyy",
		pattern: regexp.MustCompile(`(?i)\b([a-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})\b`),
		layouts: []string{"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006"},
	},
}

var ordinalSuffixRE = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

// extractDate resolves the first recognizable date mention to yyyy-MM-dd.
// Relative keywords take precedence over absolute formats. A bare weekday
// name (with or without "next") means the next upcoming occurrence of that
// weekday, today excluded.
func extractDate(text string, now time.Time) string {
	lower := strings.ToLower(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if todayRE.MatchString(lower) {
		return today.Format(isoDate)
	}
	if tomorrowRE.MatchString(lower) {
		return today.AddDate(0, 0, 1).Format(isoDate)
	}
	if m := nextWeekdayRE.FindStringSubmatch(lower); m != nil {
		target := weekdays[m[1]]
		days := int(target-today.Weekday()+7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days).Format(isoDate)
	}

	for _, strat := range dateStrategies {
		m := strat.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := ordinalSuffixRE.ReplaceAllString(m[1], "$1")
		for _, layout := range strat.layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.Format(isoDate)
			}
		}
	}
	return ""
}

var (
	clockRE    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	twelveHrRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	namedTimes = []struct {
		pattern *regexp.Regexp
		hhmm    string
	}{
		{regexp.MustCompile(`\bnoon\b`), "12:00"},
		{regexp.MustCompile(`\bmidnight\b`), "00:00"},
		{regexp.MustCompile(`\bmorning\b`), "09:00"},
		{regexp.MustCompile(`\bafternoon\b`), "14:00"},
		{regexp.MustCompile(`\bevening\b`), "18:00"},
	}
)

// extractTime resolves the first time mention to 24-hour HH:MM. Strict
// 24-hour clock text is tried first, then 12-hour with meridiem, then the
// named buckets.
func extractTime(text string) string {
	// A meridiem suffix disqualifies the 24-hour match so "2:30pm" falls
	// through to the 12-hour parse instead of reading as 02:30.
	if m := clockRE.FindStringSubmatch(text); m != nil && m[3] == "" {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 24 && minute < 60 {
			return formatHHMM(hour, minute)
		}
	}

	if m := twelveHrRE.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute < 60 {
			meridiem := strings.ToLower(m[3])
			if meridiem == "pm" && hour != 12 {
				hour += 12
			}
			if meridiem == "am" && hour == 12 {
				hour = 0
			}
			return formatHHMM(hour, minute)
		}
	}

	lower := strings.ToLower(text)
	for _, nt := range namedTimes {
		if nt.pattern.MatchString(lower) {
			return nt.hhmm
		}
	}
	return ""
}

func formatHHMM(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}

// timezoneTable maps abbreviation/region cues to IANA zones, checked in
// order so the US abbreviations win over the looser region words.
var timezoneTable = []struct {
	pattern *regexp.Regexp
	zone    string
}{
	{regexp.MustCompile(`(?i)\b(est|edt|eastern)\b`), "America/New_York"},
	{regexp.MustCompile(`(?i)\b(cst|cdt|central)\b`), "America/Chicago"},
	{regexp.MustCompile(`(?i)\b(mst|mdt|mountain)\b`), "America/Denver"},
	{regexp.MustCompile(`(?i)\b(pst|pdt|pacific)\b`), "America/Los_Angeles"},
	{regexp.MustCompile(`(?i)\b(india|indian|ist|asia)\b`), "Asia/Kolkata"},
	{regexp.MustCompile(`(?i)\b(utc|gmt)\b`), "UTC"},
}

// extractTimezone maps a timezone cue to its IANA zone. No cue resolves to
// UTC, so downstream code cannot tell "explicitly UTC" from "unspecified".
func extractTimezone(text string) string {
	for _, entry := range timezoneTable {
		if entry.pattern.MatchString(text) {
			return entry.zone
		}
	}
	return "UTC"
}

var (
	spokenNameRE = regexp.MustCompile(`\b(?i:my name is|i'm|i am|this is)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){0,3})`)
	labelNameRE  = regexp.MustCompile(`(?i)\bname\s*[:\-]\s*([a-zA-Z]+(?:\s+[a-zA-Z]+){0,3})`)
	bareNameRE   = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
)

// extractName matches a spoken introduction followed by capitalized words,
// or a name label with any casing, or as a last resort a bare pair of
// capitalized words ("tomorrow at 3pm, Jane Doe, jane@x.com"). The result
// is re-title-cased either way.
func extractName(text string) string {
	if m := spokenNameRE.FindStringSubmatch(text); m != nil {
		return titleCase(m[1])
	}
	if m := labelNameRE.FindStringSubmatch(text); m != nil {
		return titleCase(m[1])
	}
	if m := bareNameRE.FindStringSubmatch(text); m != nil {
		return titleCase(m[1])
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

func extractEmail(text string) string {
	return strings.ToLower(emailRE.FindString(text))
}

var (
	labelPhoneRE = regexp.MustCompile(`(?i)\b(?:phone|mobile|cell|call me at|contact)\s*[:\-]?\s*(\+?\d[\d\s().\-]{6,})`)
	barePhoneRE  = regexp.MustCompile(`\+?\(?\d{1,3}\)?[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3,4}(?:[\s.\-]?\d{3,4})?`)
	nonDigitRE   = regexp.MustCompile(`\D`)
)

// extractPhone finds a label-prefixed or bare phone number and normalizes
// it to digits with an optional leading +.
func extractPhone(text string) string {
	raw := ""
	if m := labelPhoneRE.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := barePhoneRE.FindString(text); m != "" {
		raw = m
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	plus := strings.HasPrefix(raw, "+")
	digits := nonDigitRE.ReplaceAllString(raw, "")
	if len(digits) < 7 {
		return ""
	}
	if plus {
		return "+" + digits
	}
	return digits
}

var (
	labelNotesRE  = regexp.MustCompile(`(?i)\b(?:notes|comments|details|reason|about|regarding)\s*[:\-]\s*(.+)$`)
	spokenNotesRE = regexp.MustCompile(`(?i)\b(?:i need|looking for|interested in)\s+(.+)$`)
)

func extractNotes(text string) string {
	if m := labelNotesRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := spokenNotesRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
