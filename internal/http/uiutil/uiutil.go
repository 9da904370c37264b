// Package uiutil holds small formatting helpers shared by landing page templates.
package uiutil

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// PostedAge describes how long ago a listing was posted. ok=false means the
// posted date is unknown.
func PostedAge(days int, ok bool) string {
	switch {
	case !ok:
		return ""
	case days == 0:
		return "Posted today"
	case days == 1:
		return "Posted 1 day ago"
	default:
		return "Posted " + strconv.Itoa(days) + " days ago"
	}
}

// DayRate renders a whole-pound day rate with thousands separators, e.g. "£1,400/day".
func DayRate(rate int) string {
	if rate <= 0 {
		return ""
	}
	return printer.Sprintf("£%d/day", rate)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
