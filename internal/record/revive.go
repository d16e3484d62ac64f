package record

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// dateText matches the two date renderings the API emits: ISO-8601 UTC with
// milliseconds, and the RFC 1123 "GMT" form.
var dateText = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z|[\w, ]+\d{2}:\d{2}:\d{2} GMT)$`)

var gmtLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 MST",
	"Jan 2 2006 15:04:05 MST",
	"Mon Jan 2 2006 15:04:05 MST",
}

// Revive converts s to a time Value when it is one of the API's date
// renderings and leaves it a string otherwise.
func Revive(s string) Value { return reviveString(s) }

func reviveString(s string) Value {
	if !dateText.MatchString(s) {
		return String(s)
	}
	if t, ok := parseDate(s); ok {
		return Time(t)
	}
	return String(s)
}

func parseDate(s string) (time.Time, bool) {
	if strings.HasSuffix(s, "Z") {
		dt, err := strfmt.ParseDateTime(s)
		if err != nil {
			return time.Time{}, false
		}
		return time.Time(dt), true
	}
	for _, layout := range gmtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
