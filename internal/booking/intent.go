package booking

import (
	"regexp"
	"strings"
)

// strongIntentPatterns are signals that alone mark a message as
// booking-related: booking verbs, availability words, calendar/date/time
// words.
var strongIntentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(book|booking|booked|schedule|scheduling|reschedule|appointment|reserve|reservation)\b`),
	regexp.MustCompile(`(?i)\b(available|availability|opening|openings|open slots?|free slots?)\b`),
	regexp.MustCompile(`(?i)\b(calendar|meeting|session|consultation)\b`),
	regexp.MustCompile(`(?i)\bwhat (times?|dates?|days?)\b`),
}

// weakIntentPatterns extend the strong set with literal date/time shapes,
// contact fields, timezone mentions and confirmation words. Any one of
// these on its own is too weak to flip a message into booking mode.
var weakIntentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(today|tomorrow|next week|sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`),
	regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}(?:[/\-]\d{2,4})?\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\b`),
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
	regexp.MustCompile(`(?i)\b(morning|afternoon|evening|noon|midnight)\b`),
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`(?i)\b(name|email|phone|contact)\s*[:\-]`),
	regexp.MustCompile(`(?i)\bmy name is\b`),
	regexp.MustCompile(`(?i)\b(est|edt|cst|cdt|mst|mdt|pst|pdt|utc|gmt|timezone|time zone)\b`),
	regexp.MustCompile(`(?i)\b(confirm|confirmed|yes|correct)\b`),
}

// IsBookingIntent reports whether a message is booking-related: any single
// strong pattern, or at least two matches across the combined pattern set.
// The two-of-many rule keeps one stray signal, like a bare email address,
// from dragging a normal chat turn into the booking flow.
func IsBookingIntent(message string) bool {
	for _, p := range strongIntentPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	matches := 0
	for _, p := range weakIntentPatterns {
		if p.MatchString(message) {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

var (
	shortConfirmRE    = regexp.MustCompile(`(?i)^(yes|yeah|yep|yup|sure|ok|okay|confirm|confirmed|correct|sounds good|that works|perfect|great)[.!,\s]*(please|thanks|thank you)?[.!\s]*$`)
	embeddedConfirmRE = regexp.MustCompile(`(?i)\b(confirm|confirmed|proceed|go ahead|book it|looks good|that works)\b`)
	noMoreInfoRE      = regexp.MustCompile(`(?i)^(no|nope|nothing)\b.*\b(else|more|additional|further)\b`)
)

// IsConfirmationIntent reports whether a message affirmatively agrees to
// proceed with a pending booking.
func IsConfirmationIntent(message string) bool {
	normalized := strings.TrimSpace(message)
	if normalized == "" {
		return false
	}
	if shortConfirmRE.MatchString(normalized) {
		return true
	}
	if embeddedConfirmRE.MatchString(normalized) {
		return true
	}
	return noMoreInfoRE.MatchString(normalized)
}
