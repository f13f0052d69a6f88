package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// legacyDatePattern matches the WCF envelope /Date(1758602879000+0700)/. JSON
// escaping of the slashes is tolerated in case a payload was decoded twice.
var legacyDatePattern = regexp.MustCompile(`^\\?/Date\((-?\d+)([+-]\d{4})?\)\\?/$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseLegacyDate parses a legacy /Date(ms±zzzz)/ envelope or an ISO-8601 string.
// The offset in the envelope is ignored: the milliseconds are already UTC.
// Empty or unrecognised input yields nil.
func ParseLegacyDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if m := legacyDatePattern.FindStringSubmatch(v); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
